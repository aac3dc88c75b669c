package testutil

import (
	"hotel-backoffice/internal/models"
	"hotel-backoffice/internal/utils"

	"github.com/google/uuid"
)

// CreateTestUser creates a user with a hashed password, ready to insert.
func CreateTestUser(name, email, password string, role models.Role) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Phone:        "+1-555-0100",
		Address:      "1 Test Street",
		Role:         role,
		IsActive:     true,
	}, nil
}

// DefaultGuestUser returns a default guest account.
func DefaultGuestUser() (*models.User, error) {
	return CreateTestUser("testguest", "guest@example.com", "Guest123456", models.RoleGuest)
}

// DefaultAdminUser returns a default admin account.
func DefaultAdminUser() (*models.User, error) {
	return CreateTestUser("admin", "admin@example.com", "Admin123456", models.RoleAdmin)
}

// CreateTestRoom returns a valid room with sensible defaults; callers tweak
// what the test cares about.
func CreateTestRoom(roomNumber string) *models.Room {
	return &models.Room{
		ID:              uuid.New(),
		RoomNumber:      roomNumber,
		RoomName:        "Garden View " + roomNumber,
		RoomType:        "Deluxe",
		TypeDescription: "Deluxe room with a garden view",
		Amenities:       models.StringList{"WiFi", "TV"},
		Floor:           2,
		Capacity:        2,
		BedNumber:       1,
		BedType:         models.BedTypeLuxuryKing,
		RoomSize:        models.RoomSizeKing,
		Pricing: models.Pricing{
			BasePrice:    120,
			WeekendPrice: 150,
			SeasonalRate: models.SeasonalRateNormal,
		},
		Status:           models.RoomStatusAvailable,
		IsActive:         true,
		RoomDescription:  "A comfortable room for two guests.",
		ReserveCondition: "No smoking. Check-in after 2pm.",
		CoverImage: models.ImageRef{
			URL:      "https://cdn.example.com/rooms/" + roomNumber + ".jpg",
			PublicID: "rooms/cover-" + roomNumber,
		},
		GalleryImages: models.ImageRefList{},
	}
}
