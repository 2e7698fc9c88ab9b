package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	bookingRepo "github.com/qhomebase/QH-BookingService/internal/infra/storage/booking"
	"github.com/qhomebase/QH-BookingService/internal/integrations/catalog"
	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
)

// AddItem добавляет опцию или комбо к бронированию в статусе pending
// Цена и наименование позиции фиксируются из каталога на момент добавления
func (s *Service) AddItem(ctx context.Context, bookingID uuid.UUID, actor models.Actor, req *models.AddItemRequest) (*models.BookingResponse, error) {
	s.logger.Info("AddItem: adding item to booking id=%s by user=%s", bookingID, actor.UserID)

	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	itemType := domain.ItemType(req.ItemType)
	if !itemType.IsValid() {
		return nil, fmt.Errorf("%w: unknown item type %q", ErrInvalidInput, req.ItemType)
	}

	booking, err := s.loadUpdatable(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}

	if len(booking.Items) >= domain.MaxItemsPerBooking {
		return nil, fmt.Errorf("%w: booking already has %d items", ErrInvalidInput, len(booking.Items))
	}

	service, err := s.catalogClient.GetService(ctx, booking.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("AddItem: catalog error for service=%s: %v", booking.ServiceID, err)
		return nil, fmt.Errorf("%w: AddItem - catalog error: %v", ErrInternal, err)
	}

	item, err := buildItem(service, itemType, req.ItemID, req.Quantity)
	if err != nil {
		s.logger.Warn("AddItem: item id=%s type=%s not found in catalog of service=%s", req.ItemID, itemType, booking.ServiceID)
		return nil, err
	}
	item.BookingID = bookingID

	// Сумма позиций меняется вместе с общей суммой бронирования
	newTotal := booking.TotalAmount + item.TotalPrice

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if _, err := s.bookingRepo.InsertItem(ctx, item); err != nil {
			return err
		}
		return s.bookingRepo.UpdateTotalAmount(ctx, bookingID, newTotal)
	})
	if err != nil {
		s.logger.Error("AddItem: transaction error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: AddItem - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("AddItem: item %s added to booking id=%s, total=%.2f", item.ItemCode, bookingID, newTotal)
	return s.reload(ctx, bookingID)
}

// UpdateItem изменяет количество позиции бронирования
func (s *Service) UpdateItem(ctx context.Context, bookingID, itemID uuid.UUID, actor models.Actor, req *models.UpdateItemRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateItem: updating item id=%s of booking id=%s by user=%s", itemID, bookingID, actor.UserID)

	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	booking, err := s.loadUpdatable(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}

	item, err := s.bookingRepo.GetItem(ctx, bookingID, itemID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		s.logger.Error("UpdateItem: repository error for item id=%s: %v", itemID, err)
		return nil, fmt.Errorf("%w: UpdateItem - repository error: %v", ErrInternal, err)
	}

	newItemTotal := item.UnitPrice * float64(req.Quantity)
	newTotal := booking.TotalAmount - item.TotalPrice + newItemTotal

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.bookingRepo.UpdateItemQuantity(ctx, bookingID, itemID, req.Quantity, newItemTotal); err != nil {
			return err
		}
		return s.bookingRepo.UpdateTotalAmount(ctx, bookingID, newTotal)
	})
	if err != nil {
		s.logger.Error("UpdateItem: transaction error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdateItem - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateItem: item id=%s quantity=%d, booking total=%.2f", itemID, req.Quantity, newTotal)
	return s.reload(ctx, bookingID)
}

// DeleteItem удаляет позицию бронирования
func (s *Service) DeleteItem(ctx context.Context, bookingID, itemID uuid.UUID, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("DeleteItem: deleting item id=%s of booking id=%s by user=%s", itemID, bookingID, actor.UserID)

	booking, err := s.loadUpdatable(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}

	item, err := s.bookingRepo.GetItem(ctx, bookingID, itemID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		s.logger.Error("DeleteItem: repository error for item id=%s: %v", itemID, err)
		return nil, fmt.Errorf("%w: DeleteItem - repository error: %v", ErrInternal, err)
	}

	newTotal := booking.TotalAmount - item.TotalPrice

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.bookingRepo.DeleteItem(ctx, bookingID, itemID); err != nil {
			return err
		}
		return s.bookingRepo.UpdateTotalAmount(ctx, bookingID, newTotal)
	})
	if err != nil {
		s.logger.Error("DeleteItem: transaction error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: DeleteItem - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteItem: item id=%s removed, booking total=%.2f", itemID, newTotal)
	return s.reload(ctx, bookingID)
}

// loadUpdatable загружает бронирование и проверяет, что позиции можно менять
func (s *Service) loadUpdatable(ctx context.Context, bookingID uuid.UUID, actor models.Actor) (*domain.Booking, error) {
	booking, err := s.loadOwned(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}

	if _, ok := domain.NextStatus(booking.Status, domain.EventUpdateItems, actor.Role); !ok {
		s.logger.Warn("items are not updatable in status=%s for booking id=%s", booking.Status, bookingID)
		return nil, fmt.Errorf("%w: cannot update items in status %s", ErrInvalidTransition, booking.Status)
	}

	return booking, nil
}

// buildItem собирает позицию бронирования из каталожных данных
func buildItem(service *catalog.Service, itemType domain.ItemType, itemID uuid.UUID, quantity int) (*domain.BookingItem, error) {
	item := &domain.BookingItem{
		ItemType: itemType,
		ItemID:   itemID,
		Quantity: quantity,
	}

	switch itemType {
	case domain.ItemTypeOption:
		option := service.FindOption(itemID)
		if option == nil {
			return nil, ErrItemNotInCatalog
		}
		item.ItemCode = option.Code
		item.ItemName = option.Name
		item.UnitPrice = option.Price
	case domain.ItemTypeCombo:
		combo := service.FindCombo(itemID)
		if combo == nil {
			return nil, ErrItemNotInCatalog
		}
		item.ItemCode = combo.Code
		item.ItemName = combo.Name
		item.UnitPrice = combo.Price
	}

	item.ComputeTotal()
	return item, nil
}
