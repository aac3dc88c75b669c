package service

import (
	"context"
	"io"
	"strings"

	"hotel-backoffice/internal/apperrors"
	"hotel-backoffice/internal/audit"
	"hotel-backoffice/internal/broker"
	"hotel-backoffice/internal/cache"
	"hotel-backoffice/internal/media"
	"hotel-backoffice/internal/models"
	"hotel-backoffice/internal/repository"
	"hotel-backoffice/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// roomImageFolder is the folder every room asset lives under in the media store.
const roomImageFolder = "rooms"

var (
	roomViewRoles = []models.Role{
		models.RoleAdmin,
		models.RoleManager,
		models.RoleReceptionist,
	}
	roomStatusRoles = []models.Role{
		models.RoleAdmin,
		models.RoleManager,
		models.RoleHousekeeping,
		models.RoleMaintenance,
	}
)

// RoomService owns the room inventory: documents in the database plus their
// image assets in the external media store. The two are always created and
// deleted together.
type RoomService struct {
	rooms  *repository.RoomRepository
	media  media.Store
	cache  *cache.RoomCache       // may be nil (tests)
	events broker.RoomEventBroker // may be nil (tests)
	trail  *audit.Trail           // may be nil (tests)
}

func NewRoomService(
	rooms *repository.RoomRepository,
	mediaStore media.Store,
	roomCache *cache.RoomCache,
	events broker.RoomEventBroker,
	trail *audit.Trail,
) *RoomService {
	return &RoomService{
		rooms:  rooms,
		media:  mediaStore,
		cache:  roomCache,
		events: events,
		trail:  trail,
	}
}

type CreateRoomInput struct {
	RoomNumber       string
	RoomName         string
	RoomType         string
	TypeDescription  string
	Amenities        string // JSON array or comma-separated
	Floor            int
	Capacity         int
	ExtraCapability  string
	BedNumber        int
	BedType          string
	RoomSize         string
	BasePrice        float64
	WeekendPrice     float64
	ExtraBedCharge   float64
	SeasonalRate     string
	DiscountPercent  float64
	Status           string
	IsActive         *bool
	RoomDescription  string
	ReserveCondition string
	CoverImage       io.Reader
	GalleryImages    []io.Reader
}

type UpdateRoomInput struct {
	RoomNumber       *string
	RoomName         *string
	RoomType         *string
	TypeDescription  *string
	Amenities        *string
	Floor            *int
	Capacity         *int
	ExtraCapability  *string
	BedNumber        *int
	BedType          *string
	RoomSize         *string
	BasePrice        *float64
	WeekendPrice     *float64
	ExtraBedCharge   *float64
	SeasonalRate     *string
	DiscountPercent  *float64
	Status           *string
	IsActive         *bool
	RoomDescription  *string
	ReserveCondition *string
	NewCoverImage    io.Reader
	NewGalleryImages []io.Reader
	ReplaceGallery   bool
}

// uploadedAssets tracks what has gone into the media store during one
// operation so a later failure can compensate by deleting it again. This
// bounds the window where the database and the media store disagree.
type uploadedAssets struct {
	store media.Store
	ids   []string
}

func (u *uploadedAssets) add(publicID string) {
	u.ids = append(u.ids, publicID)
}

func (u *uploadedAssets) rollback(ctx context.Context) {
	for _, id := range u.ids {
		if err := u.store.Delete(ctx, id); err != nil {
			logger.Log.Warn("Compensating asset delete failed, asset orphaned",
				zap.String("public_id", id),
				zap.Error(err),
			)
		}
	}
}

func (s *RoomService) record(actor *models.User, action string, entityID uuid.UUID) {
	if s.trail == nil {
		return
	}
	if err := s.trail.Record(audit.Entry{
		ActorID:   actor.ID.String(),
		ActorRole: string(actor.Role),
		Action:    action,
		Entity:    "room",
		EntityID:  entityID.String(),
	}); err != nil {
		logger.Log.Warn("Audit record failed",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

func (s *RoomService) publish(event broker.RoomEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(event); err != nil {
		logger.Log.Warn("Room event publish failed",
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
}

func (s *RoomService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// CreateRoom validates, uploads the cover (and any gallery) images, then
// persists the document. A database failure after upload compensates by
// deleting the just-uploaded assets.
func (s *RoomService) CreateRoom(ctx context.Context, actor *models.User, input CreateRoomInput) (*models.Room, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden("only admin can create rooms")
	}

	roomNumber := strings.TrimSpace(input.RoomNumber)
	if roomNumber == "" {
		return nil, apperrors.Validation("room number is required")
	}
	roomType := strings.TrimSpace(input.RoomType)
	if roomType == "" {
		return nil, apperrors.Validation("room type is required")
	}

	bedType, roomSize, seasonalRate, status, err := parseRoomEnums(
		input.BedType, input.RoomSize, input.SeasonalRate, input.Status)
	if err != nil {
		return nil, err
	}

	if err := validateRoomNumbers(input.Floor, input.Capacity, input.BedNumber,
		input.BasePrice, input.WeekendPrice, input.ExtraBedCharge, input.DiscountPercent); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(input.RoomDescription)
	if len(description) < 10 {
		return nil, apperrors.Validation("room description must be at least 10 characters")
	}
	reserveCondition := strings.TrimSpace(input.ReserveCondition)
	if len(reserveCondition) < 5 {
		return nil, apperrors.Validation("reserve condition must be at least 5 characters")
	}

	if input.CoverImage == nil {
		return nil, apperrors.Validation("cover image is required")
	}
	if len(input.GalleryImages) > models.MaxGalleryImages {
		return nil, apperrors.Validation("at most 5 gallery images are allowed")
	}

	existing, err := s.rooms.GetRoomByNumber(roomNumber)
	if err != nil {
		return nil, apperrors.Internal("room creation failed", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("room number already exists")
	}

	pending := &uploadedAssets{store: s.media}

	coverAsset, err := s.media.Upload(ctx, input.CoverImage, roomImageFolder)
	if err != nil {
		logger.Log.Error("Cover image upload failed",
			zap.String("room_number", roomNumber),
			zap.Error(err),
		)
		return nil, apperrors.Internal("cover image upload failed", err)
	}
	pending.add(coverAsset.PublicID)

	gallery := make(models.ImageRefList, 0, len(input.GalleryImages))
	for _, img := range input.GalleryImages {
		asset, err := s.media.Upload(ctx, img, roomImageFolder)
		if err != nil {
			logger.Log.Error("Gallery image upload failed",
				zap.String("room_number", roomNumber),
				zap.Error(err),
			)
			pending.rollback(ctx)
			return nil, apperrors.Internal("gallery image upload failed", err)
		}
		pending.add(asset.PublicID)
		gallery = append(gallery, models.ImageRef{URL: asset.URL, PublicID: asset.PublicID})
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	room := &models.Room{
		ID:              newID(),
		RoomNumber:      roomNumber,
		RoomName:        strings.TrimSpace(input.RoomName),
		RoomType:        roomType,
		TypeDescription: strings.TrimSpace(input.TypeDescription),
		Amenities:       ParseAmenities(input.Amenities),
		Floor:           input.Floor,
		Capacity:        input.Capacity,
		ExtraCapability: strings.TrimSpace(input.ExtraCapability),
		BedNumber:       input.BedNumber,
		BedType:         bedType,
		RoomSize:        roomSize,
		Pricing: models.Pricing{
			BasePrice:       input.BasePrice,
			WeekendPrice:    input.WeekendPrice,
			ExtraBedCharge:  input.ExtraBedCharge,
			SeasonalRate:    seasonalRate,
			DiscountPercent: input.DiscountPercent,
		},
		Status:           status,
		IsActive:         isActive,
		RoomDescription:  description,
		ReserveCondition: reserveCondition,
		CoverImage:       models.ImageRef{URL: coverAsset.URL, PublicID: coverAsset.PublicID},
		GalleryImages:    gallery,
	}

	if err := s.rooms.CreateRoom(room); err != nil {
		logger.Log.Error("Failed to persist room, compensating uploads",
			zap.String("room_number", roomNumber),
			zap.Error(err),
		)
		pending.rollback(ctx)
		return nil, apperrors.Internal("room creation failed", err)
	}

	s.invalidateCache(ctx)
	s.publish(broker.RoomEvent{
		Type:       broker.EventRoomCreated,
		RoomID:     room.ID.String(),
		RoomNumber: room.RoomNumber,
		Actor:      actor.ID.String(),
		OccurredAt: room.CreatedAt.UTC(),
	})
	s.record(actor, "room_created", room.ID)

	logger.Log.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.String("room_number", room.RoomNumber),
		zap.Int("gallery_size", len(room.GalleryImages)),
	)

	return room, nil
}

// GetRooms returns the full inventory, newest first.
func (s *RoomService) GetRooms(actor *models.User) ([]*models.Room, error) {
	if !roleAllowed(actor.Role, roomViewRoles...) {
		return nil, apperrors.Forbidden("not permitted to list rooms")
	}

	rooms, err := s.rooms.ListRooms()
	if err != nil {
		return nil, apperrors.Internal("failed to fetch rooms", err)
	}
	return rooms, nil
}

// GetAvailableRooms is the guest-visible listing: Available AND active,
// served read-through from the cache when possible.
func (s *RoomService) GetAvailableRooms(ctx context.Context) ([]*models.Room, error) {
	if s.cache != nil {
		if rooms, ok := s.cache.GetAvailable(ctx); ok {
			return rooms, nil
		}
	}

	rooms, err := s.rooms.ListAvailableRooms()
	if err != nil {
		return nil, apperrors.Internal("failed to fetch available rooms", err)
	}

	if s.cache != nil {
		s.cache.SetAvailable(ctx, rooms)
	}

	return rooms, nil
}

func (s *RoomService) GetRoomByID(actor *models.User, id uuid.UUID) (*models.Room, error) {
	if !roleAllowed(actor.Role, roomViewRoles...) {
		return nil, apperrors.Forbidden("not permitted to view rooms")
	}

	room, err := s.rooms.GetRoomByID(id)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch room", err)
	}
	if room == nil {
		return nil, apperrors.NotFound("room not found")
	}
	return room, nil
}

// UpdateRoom applies a partial update. New images are uploaded before the
// document is saved and the replaced assets are deleted only after the save
// succeeds, so a failed upload can never leave the room without a cover.
func (s *RoomService) UpdateRoom(ctx context.Context, actor *models.User, id uuid.UUID, input UpdateRoomInput) (*models.Room, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden("only admin can update rooms")
	}

	room, err := s.rooms.GetRoomByID(id)
	if err != nil {
		return nil, apperrors.Internal("room update failed", err)
	}
	if room == nil {
		return nil, apperrors.NotFound("room not found")
	}

	if input.RoomNumber != nil {
		newNumber := strings.TrimSpace(*input.RoomNumber)
		if newNumber == "" {
			return nil, apperrors.Validation("room number cannot be empty")
		}
		if newNumber != room.RoomNumber {
			other, err := s.rooms.GetRoomByNumberExcluding(newNumber, room.ID)
			if err != nil {
				return nil, apperrors.Internal("room update failed", err)
			}
			if other != nil {
				return nil, apperrors.Conflict("another room already exists with this room number")
			}
		}
		room.RoomNumber = newNumber
	}

	if err := applyRoomFieldUpdates(room, input); err != nil {
		return nil, err
	}

	if input.NewGalleryImages != nil && !input.ReplaceGallery &&
		len(room.GalleryImages)+len(input.NewGalleryImages) > models.MaxGalleryImages {
		return nil, apperrors.Validation("gallery cannot exceed 5 images")
	}
	if input.ReplaceGallery && len(input.NewGalleryImages) > models.MaxGalleryImages {
		return nil, apperrors.Validation("at most 5 gallery images are allowed")
	}

	pending := &uploadedAssets{store: s.media}
	var replacedAssets []string

	if input.NewCoverImage != nil {
		asset, err := s.media.Upload(ctx, input.NewCoverImage, roomImageFolder)
		if err != nil {
			logger.Log.Error("Cover image upload failed",
				zap.String("room_id", room.ID.String()),
				zap.Error(err),
			)
			return nil, apperrors.Internal("cover image upload failed", err)
		}
		pending.add(asset.PublicID)

		if room.CoverImage.PublicID != "" {
			replacedAssets = append(replacedAssets, room.CoverImage.PublicID)
		}
		room.CoverImage = models.ImageRef{URL: asset.URL, PublicID: asset.PublicID}
	}

	if len(input.NewGalleryImages) > 0 {
		uploaded := make(models.ImageRefList, 0, len(input.NewGalleryImages))
		for _, img := range input.NewGalleryImages {
			asset, err := s.media.Upload(ctx, img, roomImageFolder)
			if err != nil {
				logger.Log.Error("Gallery image upload failed",
					zap.String("room_id", room.ID.String()),
					zap.Error(err),
				)
				pending.rollback(ctx)
				return nil, apperrors.Internal("gallery image upload failed", err)
			}
			pending.add(asset.PublicID)
			uploaded = append(uploaded, models.ImageRef{URL: asset.URL, PublicID: asset.PublicID})
		}

		if input.ReplaceGallery {
			for _, img := range room.GalleryImages {
				if img.PublicID != "" {
					replacedAssets = append(replacedAssets, img.PublicID)
				}
			}
			room.GalleryImages = uploaded
		} else {
			room.GalleryImages = append(room.GalleryImages, uploaded...)
		}
	}

	if err := s.rooms.SaveRoom(room); err != nil {
		logger.Log.Error("Failed to persist room update, compensating uploads",
			zap.String("room_id", room.ID.String()),
			zap.Error(err),
		)
		pending.rollback(ctx)
		return nil, apperrors.Internal("room update failed", err)
	}

	// The document now owns the new assets; the replaced ones are deleted
	// best-effort. A failure here orphans an asset in the media store but
	// never a reference in the database.
	for _, publicID := range replacedAssets {
		if err := s.media.Delete(ctx, publicID); err != nil {
			logger.Log.Warn("Failed to delete replaced asset",
				zap.String("public_id", publicID),
				zap.Error(err),
			)
		}
	}

	s.invalidateCache(ctx)
	s.publish(broker.RoomEvent{
		Type:       broker.EventRoomUpdated,
		RoomID:     room.ID.String(),
		RoomNumber: room.RoomNumber,
		Actor:      actor.ID.String(),
		OccurredAt: room.UpdatedAt.UTC(),
	})
	s.record(actor, "room_updated", room.ID)

	logger.Log.Info("Room updated",
		zap.String("room_id", room.ID.String()),
		zap.String("room_number", room.RoomNumber),
	)

	return room, nil
}

// DeleteRoom deletes the cover and gallery assets, then the document. Each
// asset is requested for deletion exactly once; a media-store failure aborts
// before the document is touched.
func (s *RoomService) DeleteRoom(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if actor.Role != models.RoleAdmin {
		return apperrors.Forbidden("only admin can delete rooms")
	}

	room, err := s.rooms.GetRoomByID(id)
	if err != nil {
		return apperrors.Internal("room deletion failed", err)
	}
	if room == nil {
		return apperrors.NotFound("room not found")
	}

	if room.CoverImage.PublicID != "" {
		if err := s.media.Delete(ctx, room.CoverImage.PublicID); err != nil {
			return apperrors.Internal("failed to delete cover image", err)
		}
	}
	for _, img := range room.GalleryImages {
		if img.PublicID == "" {
			continue
		}
		if err := s.media.Delete(ctx, img.PublicID); err != nil {
			return apperrors.Internal("failed to delete gallery image", err)
		}
	}

	if err := s.rooms.DeleteRoom(id); err != nil {
		return apperrors.Internal("room deletion failed", err)
	}

	s.invalidateCache(ctx)
	s.publish(broker.RoomEvent{
		Type:       broker.EventRoomDeleted,
		RoomID:     room.ID.String(),
		RoomNumber: room.RoomNumber,
		Actor:      actor.ID.String(),
	})
	s.record(actor, "room_deleted", room.ID)

	logger.Log.Info("Room deleted",
		zap.String("room_id", room.ID.String()),
		zap.String("room_number", room.RoomNumber),
	)

	return nil
}

// SetRoomStatus changes the operational status only. Housekeeping and
// maintenance staff use this from the floor; it touches nothing else.
func (s *RoomService) SetRoomStatus(ctx context.Context, actor *models.User, id uuid.UUID, status string) (*models.Room, error) {
	if !roleAllowed(actor.Role, roomStatusRoles...) {
		return nil, apperrors.Forbidden("not permitted to change room status")
	}

	parsed, ok := models.ParseRoomStatus(status)
	if !ok {
		return nil, apperrors.Validation("invalid room status")
	}

	room, err := s.rooms.GetRoomByID(id)
	if err != nil {
		return nil, apperrors.Internal("room status update failed", err)
	}
	if room == nil {
		return nil, apperrors.NotFound("room not found")
	}

	room.Status = parsed

	if err := s.rooms.SaveRoom(room); err != nil {
		return nil, apperrors.Internal("room status update failed", err)
	}

	s.invalidateCache(ctx)
	s.publish(broker.RoomEvent{
		Type:       broker.EventRoomStatusChanged,
		RoomID:     room.ID.String(),
		RoomNumber: room.RoomNumber,
		Status:     string(room.Status),
		Actor:      actor.ID.String(),
	})
	s.record(actor, "room_status_changed", room.ID)

	return room, nil
}

// SetRoomActive toggles booking visibility, independent of operational status.
func (s *RoomService) SetRoomActive(ctx context.Context, actor *models.User, id uuid.UUID, isActive bool) (*models.Room, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden("only admin can change room visibility")
	}

	room, err := s.rooms.GetRoomByID(id)
	if err != nil {
		return nil, apperrors.Internal("room visibility update failed", err)
	}
	if room == nil {
		return nil, apperrors.NotFound("room not found")
	}

	room.IsActive = isActive

	if err := s.rooms.SaveRoom(room); err != nil {
		return nil, apperrors.Internal("room visibility update failed", err)
	}

	s.invalidateCache(ctx)
	s.publish(broker.RoomEvent{
		Type:       broker.EventRoomActiveChanged,
		RoomID:     room.ID.String(),
		RoomNumber: room.RoomNumber,
		IsActive:   &room.IsActive,
		Actor:      actor.ID.String(),
	})
	s.record(actor, "room_active_changed", room.ID)

	return room, nil
}

func parseRoomEnums(bedType, roomSize, seasonalRate, status string) (models.BedType, models.RoomSize, models.SeasonalRate, models.RoomStatus, error) {
	bt, ok := models.ParseBedType(bedType)
	if !ok {
		return "", "", "", "", apperrors.Validation("invalid bed type")
	}

	rs, ok := models.ParseRoomSize(roomSize)
	if !ok {
		return "", "", "", "", apperrors.Validation("invalid room size")
	}

	sr := models.SeasonalRateNormal
	if seasonalRate != "" {
		sr, ok = models.ParseSeasonalRate(seasonalRate)
		if !ok {
			return "", "", "", "", apperrors.Validation("invalid seasonal rate")
		}
	}

	st := models.RoomStatusAvailable
	if status != "" {
		st, ok = models.ParseRoomStatus(status)
		if !ok {
			return "", "", "", "", apperrors.Validation("invalid room status")
		}
	}

	return bt, rs, sr, st, nil
}

func validateRoomNumbers(floor, capacity, bedNumber int, basePrice, weekendPrice, extraBedCharge, discountPercent float64) error {
	if floor < 0 {
		return apperrors.Validation("floor must be 0 or greater")
	}
	if capacity < 1 {
		return apperrors.Validation("capacity must be at least 1")
	}
	if bedNumber < 1 {
		return apperrors.Validation("bed number must be at least 1")
	}
	if basePrice <= 0 {
		return apperrors.Validation("base price must be greater than 0")
	}
	if weekendPrice < 0 {
		return apperrors.Validation("weekend price cannot be negative")
	}
	if extraBedCharge < 0 {
		return apperrors.Validation("extra bed charge cannot be negative")
	}
	if discountPercent < 0 || discountPercent > 100 {
		return apperrors.Validation("discount percent must be between 0 and 100")
	}
	return nil
}

// applyRoomFieldUpdates copies the supplied scalar fields onto the room,
// validating each with the same rules as creation. Image handling is the
// caller's job.
func applyRoomFieldUpdates(room *models.Room, input UpdateRoomInput) error {
	if input.RoomName != nil {
		room.RoomName = strings.TrimSpace(*input.RoomName)
	}
	if input.RoomType != nil {
		roomType := strings.TrimSpace(*input.RoomType)
		if roomType == "" {
			return apperrors.Validation("room type cannot be empty")
		}
		room.RoomType = roomType
	}
	if input.TypeDescription != nil {
		room.TypeDescription = strings.TrimSpace(*input.TypeDescription)
	}
	if input.Amenities != nil {
		room.Amenities = ParseAmenities(*input.Amenities)
	}

	if input.Floor != nil {
		if *input.Floor < 0 {
			return apperrors.Validation("floor must be 0 or greater")
		}
		room.Floor = *input.Floor
	}
	if input.Capacity != nil {
		if *input.Capacity < 1 {
			return apperrors.Validation("capacity must be at least 1")
		}
		room.Capacity = *input.Capacity
	}
	if input.ExtraCapability != nil {
		room.ExtraCapability = strings.TrimSpace(*input.ExtraCapability)
	}
	if input.BedNumber != nil {
		if *input.BedNumber < 1 {
			return apperrors.Validation("bed number must be at least 1")
		}
		room.BedNumber = *input.BedNumber
	}

	if input.BedType != nil {
		bedType, ok := models.ParseBedType(*input.BedType)
		if !ok {
			return apperrors.Validation("invalid bed type")
		}
		room.BedType = bedType
	}
	if input.RoomSize != nil {
		roomSize, ok := models.ParseRoomSize(*input.RoomSize)
		if !ok {
			return apperrors.Validation("invalid room size")
		}
		room.RoomSize = roomSize
	}

	if input.BasePrice != nil {
		if *input.BasePrice <= 0 {
			return apperrors.Validation("base price must be greater than 0")
		}
		room.Pricing.BasePrice = *input.BasePrice
	}
	if input.WeekendPrice != nil {
		if *input.WeekendPrice < 0 {
			return apperrors.Validation("weekend price cannot be negative")
		}
		room.Pricing.WeekendPrice = *input.WeekendPrice
	}
	if input.ExtraBedCharge != nil {
		if *input.ExtraBedCharge < 0 {
			return apperrors.Validation("extra bed charge cannot be negative")
		}
		room.Pricing.ExtraBedCharge = *input.ExtraBedCharge
	}
	if input.SeasonalRate != nil {
		seasonalRate, ok := models.ParseSeasonalRate(*input.SeasonalRate)
		if !ok {
			return apperrors.Validation("invalid seasonal rate")
		}
		room.Pricing.SeasonalRate = seasonalRate
	}
	if input.DiscountPercent != nil {
		if *input.DiscountPercent < 0 || *input.DiscountPercent > 100 {
			return apperrors.Validation("discount percent must be between 0 and 100")
		}
		room.Pricing.DiscountPercent = *input.DiscountPercent
	}

	if input.Status != nil {
		status, ok := models.ParseRoomStatus(*input.Status)
		if !ok {
			return apperrors.Validation("invalid room status")
		}
		room.Status = status
	}
	if input.IsActive != nil {
		room.IsActive = *input.IsActive
	}

	if input.RoomDescription != nil {
		description := strings.TrimSpace(*input.RoomDescription)
		if len(description) < 10 {
			return apperrors.Validation("room description must be at least 10 characters")
		}
		room.RoomDescription = description
	}
	if input.ReserveCondition != nil {
		reserveCondition := strings.TrimSpace(*input.ReserveCondition)
		if len(reserveCondition) < 5 {
			return apperrors.Validation("reserve condition must be at least 5 characters")
		}
		room.ReserveCondition = reserveCondition
	}

	return nil
}
