package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"hotel-backoffice/internal/apperrors"
	"hotel-backoffice/internal/middleware"
	"hotel-backoffice/internal/service"
	"hotel-backoffice/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxImageSize caps each uploaded image at 5 MB.
const maxImageSize = 5 << 20

type RoomHandler struct {
	roomService *service.RoomService
}

func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
	}
}

// openImage validates one multipart file as an image and opens it. The
// caller owns the returned reader.
func openImage(fh *multipart.FileHeader) (multipart.File, error) {
	if fh.Size > maxImageSize {
		return nil, apperrors.Validation("image must not exceed 5MB")
	}

	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperrors.Validation("only image files are allowed")
	}

	file, err := fh.Open()
	if err != nil {
		return nil, apperrors.Internal("failed to read uploaded file", err)
	}
	return file, nil
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		f.Close()
	}
}

func formInt(c *gin.Context, key string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(c.PostForm(key)))
	if err != nil {
		return 0, apperrors.Validation(key + " must be a number")
	}
	return value, nil
}

func formFloat(c *gin.Context, key string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm(key)), 64)
	if err != nil {
		return 0, apperrors.Validation(key + " must be a number")
	}
	return value, nil
}

// formFloatOrZero reads an optional numeric field, defaulting to 0 when it
// is absent. A present but malformed value is still an error.
func formFloatOrZero(c *gin.Context, key string) (float64, error) {
	raw, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return formFloat(c, key)
}

func optionalInt(c *gin.Context, key string) (*int, error) {
	raw, ok := c.GetPostForm(key)
	if !ok {
		return nil, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, apperrors.Validation(key + " must be a number")
	}
	return &value, nil
}

func optionalFloat(c *gin.Context, key string) (*float64, error) {
	raw, ok := c.GetPostForm(key)
	if !ok {
		return nil, nil
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, apperrors.Validation(key + " must be a number")
	}
	return &value, nil
}

func optionalBool(c *gin.Context, key string) (*bool, error) {
	raw, ok := c.GetPostForm(key)
	if !ok {
		return nil, nil
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return nil, apperrors.Validation(key + " must be true or false")
	}
	return &value, nil
}

func optionalString(c *gin.Context, key string) *string {
	raw, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &raw
}

// CreateRoom creates a room from a multipart form: scalar fields plus one
// coverImage and up to five galleryImages.
// POST /room/createroom
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	floor, err := formInt(c, "floor")
	if err != nil {
		respondError(c, err)
		return
	}
	capacity, err := formInt(c, "capacity")
	if err != nil {
		respondError(c, err)
		return
	}
	bedNumber, err := formInt(c, "bedNumber")
	if err != nil {
		respondError(c, err)
		return
	}
	basePrice, err := formFloat(c, "basePrice")
	if err != nil {
		respondError(c, err)
		return
	}

	// Optional pricing fields default to zero when absent.
	weekendPrice, err := formFloatOrZero(c, "weekendPrice")
	if err != nil {
		respondError(c, err)
		return
	}
	extraBedCharge, err := formFloatOrZero(c, "extraBedCharge")
	if err != nil {
		respondError(c, err)
		return
	}
	discountPercent, err := formFloatOrZero(c, "discountPercent")
	if err != nil {
		respondError(c, err)
		return
	}

	isActive, err := optionalBool(c, "isActive")
	if err != nil {
		respondError(c, err)
		return
	}

	coverHeader, err := c.FormFile("coverImage")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cover image is required"})
		return
	}
	cover, err := openImage(coverHeader)
	if err != nil {
		respondError(c, err)
		return
	}
	defer cover.Close()

	var opened []multipart.File
	defer closeAll(opened)

	var gallery []io.Reader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["galleryImages"] {
			img, err := openImage(fh)
			if err != nil {
				respondError(c, err)
				return
			}
			opened = append(opened, img)
			gallery = append(gallery, img)
		}
	}

	logger.Log.Info("Room creation attempt",
		zap.String("room_number", c.PostForm("roomNumber")),
		zap.String("admin_id", actor.ID.String()),
	)

	room, err := h.roomService.CreateRoom(c.Request.Context(), actor, service.CreateRoomInput{
		RoomNumber:       c.PostForm("roomNumber"),
		RoomName:         c.PostForm("roomName"),
		RoomType:         c.PostForm("roomType"),
		TypeDescription:  c.PostForm("typeDescription"),
		Amenities:        c.PostForm("amenities"),
		Floor:            floor,
		Capacity:         capacity,
		ExtraCapability:  c.PostForm("extraCapability"),
		BedNumber:        bedNumber,
		BedType:          c.PostForm("bedType"),
		RoomSize:         c.PostForm("roomSize"),
		BasePrice:        basePrice,
		WeekendPrice:     weekendPrice,
		ExtraBedCharge:   extraBedCharge,
		SeasonalRate:     c.PostForm("seasonalRate"),
		DiscountPercent:  discountPercent,
		Status:           c.PostForm("status"),
		IsActive:         isActive,
		RoomDescription:  c.PostForm("roomDescription"),
		ReserveCondition: c.PostForm("reserveCondition"),
		CoverImage:       cover,
		GalleryImages:    gallery,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Room created successfully",
		"room":    room,
	})
}

// GetRooms returns the full inventory for back-office staff.
// GET /room/getroom
func (h *RoomHandler) GetRooms(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rooms, err := h.roomService.GetRooms(actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(rooms),
		"rooms": rooms,
	})
}

// GetAvailableRooms returns rooms open for booking; any authenticated role.
// GET /room/available
func (h *RoomHandler) GetAvailableRooms(c *gin.Context) {
	rooms, err := h.roomService.GetAvailableRooms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(rooms),
		"rooms": rooms,
	})
}

// GetSingleRoom returns one room by ID.
// GET /room/getsingleroom/:id
func (h *RoomHandler) GetSingleRoom(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	room, err := h.roomService.GetRoomByID(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room": room,
	})
}

// UpdateRoom applies a partial multipart update. A new coverImage replaces
// the old one; galleryImages append unless replaceGallery=true.
// PUT /room/updateroom/:id
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	input := service.UpdateRoomInput{
		RoomNumber:       optionalString(c, "roomNumber"),
		RoomName:         optionalString(c, "roomName"),
		RoomType:         optionalString(c, "roomType"),
		TypeDescription:  optionalString(c, "typeDescription"),
		Amenities:        optionalString(c, "amenities"),
		ExtraCapability:  optionalString(c, "extraCapability"),
		BedType:          optionalString(c, "bedType"),
		RoomSize:         optionalString(c, "roomSize"),
		SeasonalRate:     optionalString(c, "seasonalRate"),
		Status:           optionalString(c, "status"),
		RoomDescription:  optionalString(c, "roomDescription"),
		ReserveCondition: optionalString(c, "reserveCondition"),
	}

	if input.Floor, err = optionalInt(c, "floor"); err != nil {
		respondError(c, err)
		return
	}
	if input.Capacity, err = optionalInt(c, "capacity"); err != nil {
		respondError(c, err)
		return
	}
	if input.BedNumber, err = optionalInt(c, "bedNumber"); err != nil {
		respondError(c, err)
		return
	}
	if input.BasePrice, err = optionalFloat(c, "basePrice"); err != nil {
		respondError(c, err)
		return
	}
	if input.WeekendPrice, err = optionalFloat(c, "weekendPrice"); err != nil {
		respondError(c, err)
		return
	}
	if input.ExtraBedCharge, err = optionalFloat(c, "extraBedCharge"); err != nil {
		respondError(c, err)
		return
	}
	if input.DiscountPercent, err = optionalFloat(c, "discountPercent"); err != nil {
		respondError(c, err)
		return
	}
	if input.IsActive, err = optionalBool(c, "isActive"); err != nil {
		respondError(c, err)
		return
	}

	replaceGallery, err := optionalBool(c, "replaceGallery")
	if err != nil {
		respondError(c, err)
		return
	}
	input.ReplaceGallery = replaceGallery != nil && *replaceGallery

	var opened []multipart.File
	defer closeAll(opened)

	if coverHeader, err := c.FormFile("coverImage"); err == nil {
		cover, err := openImage(coverHeader)
		if err != nil {
			respondError(c, err)
			return
		}
		opened = append(opened, cover)
		input.NewCoverImage = cover
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["galleryImages"] {
			img, err := openImage(fh)
			if err != nil {
				respondError(c, err)
				return
			}
			opened = append(opened, img)
			input.NewGalleryImages = append(input.NewGalleryImages, img)
		}
	}

	room, err := h.roomService.UpdateRoom(c.Request.Context(), actor, id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Room updated successfully",
		"room":    room,
	})
}

// DeleteRoom removes the room and its stored images.
// DELETE /room/deleteroom/:id
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	if err := h.roomService.DeleteRoom(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Room deleted successfully",
	})
}

type RoomStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type RoomActiveStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// UpdateStatus changes the operational status only.
// PATCH /room/updatestatus/:id/status
func (h *RoomHandler) UpdateStatus(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var req RoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	room, err := h.roomService.SetRoomStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Room status updated successfully",
		"room":    room,
	})
}

// UpdateActiveStatus toggles booking visibility.
// PATCH /room/updateactivestatus/:id/active-status
func (h *RoomHandler) UpdateActiveStatus(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var req RoomActiveStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "isActive is required"})
		return
	}

	room, err := h.roomService.SetRoomActive(c.Request.Context(), actor, id, *req.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Room active status updated successfully",
		"room":    room,
	})
}
