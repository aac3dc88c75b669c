package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type BedType string

const (
	BedTypeSingle        BedType = "Single"
	BedTypeDouble        BedType = "Double"
	BedTypeStandardQueen BedType = "Standard Queen"
	BedTypeLuxuryKing    BedType = "Luxury King"
	BedTypeStandardTwin  BedType = "Standard Twin"
)

func ParseBedType(s string) (BedType, bool) {
	switch BedType(s) {
	case BedTypeSingle, BedTypeDouble, BedTypeStandardQueen, BedTypeLuxuryKing, BedTypeStandardTwin:
		return BedType(s), true
	default:
		return "", false
	}
}

type RoomSize string

const (
	RoomSizeSmall RoomSize = "Small"
	RoomSizeQueen RoomSize = "Queen"
	RoomSizeKing  RoomSize = "King"
	RoomSizeTwin  RoomSize = "Twin"
)

func ParseRoomSize(s string) (RoomSize, bool) {
	switch RoomSize(s) {
	case RoomSizeSmall, RoomSizeQueen, RoomSizeKing, RoomSizeTwin:
		return RoomSize(s), true
	default:
		return "", false
	}
}

type SeasonalRate string

const (
	SeasonalRateNormal    SeasonalRate = "Normal"
	SeasonalRateHoliday   SeasonalRate = "Holiday"
	SeasonalRatePremium   SeasonalRate = "Premium"
	SeasonalRateOffSeason SeasonalRate = "Off-Season"
)

func ParseSeasonalRate(s string) (SeasonalRate, bool) {
	switch SeasonalRate(s) {
	case SeasonalRateNormal, SeasonalRateHoliday, SeasonalRatePremium, SeasonalRateOffSeason:
		return SeasonalRate(s), true
	default:
		return "", false
	}
}

// RoomStatus is the operational (housekeeping/occupancy) state, independent
// of the IsActive visibility flag.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "Available"
	RoomStatusOccupied    RoomStatus = "Occupied"
	RoomStatusCleaning    RoomStatus = "Cleaning"
	RoomStatusMaintenance RoomStatus = "Maintenance"
)

func ParseRoomStatus(s string) (RoomStatus, bool) {
	switch RoomStatus(s) {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusCleaning, RoomStatusMaintenance:
		return RoomStatus(s), true
	default:
		return "", false
	}
}

// MaxGalleryImages caps a room's gallery, both on create and on append.
const MaxGalleryImages = 5

// ImageRef points at an asset in the external media store. PublicID is the
// store's asset id; a ref with an empty PublicID owns no remote asset.
type ImageRef struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// ImageRefList is stored as a JSON column so it works on both the postgres
// and the sqlite driver.
type ImageRefList []ImageRef

func (l ImageRefList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *ImageRefList) Scan(value interface{}) error {
	if value == nil {
		*l = ImageRefList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for ImageRefList")
	}
}

// StringList is stored as a JSON column, same reasoning as ImageRefList.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

type Pricing struct {
	BasePrice       float64      `gorm:"not null" json:"basePrice"`
	WeekendPrice    float64      `gorm:"default:0" json:"weekendPrice"`
	ExtraBedCharge  float64      `gorm:"default:0" json:"extraBedCharge"`
	SeasonalRate    SeasonalRate `gorm:"type:varchar(20);default:'Normal'" json:"seasonalRate"`
	DiscountPercent float64      `gorm:"default:0" json:"discountPercent"`
}

type Room struct {
	ID               uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	RoomNumber       string       `gorm:"type:varchar(20);uniqueIndex;not null" json:"roomNumber"`
	RoomName         string       `gorm:"type:varchar(100)" json:"roomName"`
	RoomType         string       `gorm:"type:varchar(50);index;not null" json:"roomType"` // category label, not a foreign key
	TypeDescription  string       `gorm:"type:text" json:"typeDescription"`
	Amenities        StringList   `gorm:"type:text" json:"amenities"`
	Floor            int          `gorm:"index;not null" json:"floor"`
	Capacity         int          `gorm:"not null" json:"capacity"`
	ExtraCapability  string       `gorm:"type:text" json:"extraCapability"`
	BedNumber        int          `gorm:"not null" json:"bedNumber"`
	BedType          BedType      `gorm:"type:varchar(20);not null" json:"bedType"`
	RoomSize         RoomSize     `gorm:"type:varchar(10);not null" json:"roomSize"`
	Pricing          Pricing      `gorm:"embedded;embeddedPrefix:pricing_" json:"pricing"`
	Status           RoomStatus   `gorm:"type:varchar(15);index;not null;default:'Available'" json:"status"`
	// No gorm default here: a default would make Create omit the zero value,
	// silently turning an explicit false into true. The service always sets it.
	IsActive         bool         `gorm:"index;not null" json:"isActive"`
	RoomDescription  string       `gorm:"type:text;not null" json:"roomDescription"`
	ReserveCondition string       `gorm:"type:text;not null" json:"reserveCondition"`
	CoverImage       ImageRef     `gorm:"embedded;embeddedPrefix:cover_" json:"coverImage"`
	GalleryImages    ImageRefList `gorm:"type:text" json:"galleryImages"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}
