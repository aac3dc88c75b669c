package repository

import (
	"errors"

	"hotel-backoffice/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) CreateRoom(room *models.Room) error {
	return r.db.Create(room).Error
}

func (r *RoomRepository) GetRoomByID(id uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := r.db.Where("id = ?", id).First(&room).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &room, nil
}

func (r *RoomRepository) GetRoomByNumber(roomNumber string) (*models.Room, error) {
	var room models.Room
	err := r.db.Where("room_number = ?", roomNumber).First(&room).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &room, nil
}

// GetRoomByNumberExcluding is the uniqueness probe for renames: it ignores
// the room being updated so a no-op rename doesn't collide with itself.
func (r *RoomRepository) GetRoomByNumberExcluding(roomNumber string, excludeID uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := r.db.Where("room_number = ? AND id <> ?", roomNumber, excludeID).First(&room).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &room, nil
}

func (r *RoomRepository) ListRooms() ([]*models.Room, error) {
	var rooms []*models.Room
	err := r.db.Order("created_at DESC").Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// ListAvailableRooms returns bookable rooms only: operationally available
// AND visible.
func (r *RoomRepository) ListAvailableRooms() ([]*models.Room, error) {
	var rooms []*models.Room
	err := r.db.
		Where("status = ? AND is_active = ?", models.RoomStatusAvailable, true).
		Order("created_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomRepository) SaveRoom(room *models.Room) error {
	return r.db.Save(room).Error
}

func (r *RoomRepository) DeleteRoom(id uuid.UUID) error {
	return r.db.Delete(&models.Room{}, "id = ?", id).Error
}
