package orderpipe

import "time"

// RawRecord is one order document as read from the source directory:
// the originating file name plus the decoded JSON object.
type RawRecord struct {
	FileName string
	Data     map[string]any
}

// Row types mirror the target relational schema one-to-one. Optional
// columns are pointer-typed so absent JSON fields load as SQL NULL.

// Customer is a row for the customers dimension. Phone is the natural key
// used for cross-run identity; CustomerID is the identifier carried by the
// source feed.
type Customer struct {
	CustomerID string
	FirstName  *string
	LastName   *string
	Phone      string
	Email      *string
	IsVerified *bool
}

// Merchant is a row for the merchants dimension, keyed by the feed's
// merchant identifier.
type Merchant struct {
	MerchantID   string
	BusinessName *string
	ContactName  *string
	Phone        *string
	Email        *string
	Category     *string
}

// Driver is a row for the drivers dimension.
type Driver struct {
	DriverID        string
	FirstName       *string
	LastName        *string
	Phone           *string
	VehicleType     *string
	VehiclePlate    *string
	Rating          *float64
	TotalDeliveries *int64
}

// Address is a deduplicated location row. AddressID is a content hash of
// the identifying fields, so identical locations collapse to one row no
// matter how many orders reference them.
type Address struct {
	AddressID           string
	Floor               *string
	Apartment           *string
	Building            *string
	Street              *string
	Area                *string
	City                *string
	District            *string
	Governorate         *string
	PostalCode          *string
	Country             *string
	CountryCode         *string
	Latitude            *float64
	Longitude           *float64
	Landmark            *string
	SpecialInstructions *string
}

// Order is the central fact row. Dimension references are nullable: an
// order document without a driver section simply has no driver.
type Order struct {
	OrderID               string
	OrderNumber           *string
	OrderType             *string
	OrderStatus           *string
	CreatedAt             *time.Time
	UpdatedAt             *time.Time
	ScheduledPickupTime   *time.Time
	ActualPickupTime      *time.Time
	ScheduledDeliveryTime *time.Time
	ActualDeliveryTime    *time.Time
	CustomerID            *string
	MerchantID            *string
	DriverID              *string
	PickupAddressID       *string
	DropoffAddressID      *string
}

// Payment is the 1:1 financial companion of an order, keyed by OrderID.
// PaymentID is the processor's reference and may be absent.
type Payment struct {
	OrderID                  string
	PaymentID                *string
	PaymentMethod            *string
	PaymentStatus            *string
	Currency                 *string
	Subtotal                 *float64
	DeliveryFee              *float64
	ServiceFee               *float64
	DiscountAmount           *float64
	TotalAmount              *float64
	CollectedAmount          *float64
	IsPaidBack               *bool
	CollectedAt              *time.Time
	BusinessCollectionDate   *time.Time
	BusinessCollectionStatus *string
}

// Tracking is the 1:1 delivery tracking companion of an order.
type Tracking struct {
	OrderID               string
	TrackerID             *string
	TrackingURL           *string
	CurrentStatus         *string
	EstimatedDeliveryTime *time.Time
}

// Item is one line item of an order, exploded from the document's items array.
type Item struct {
	ItemID      string
	OrderID     string
	SKU         *string
	Name        *string
	Description *string
	Category    *string
	Quantity    *int64
	UnitPrice   *float64
	TotalPrice  *float64
	WeightKg    *float64
	LengthCm    *float64
	WidthCm     *float64
	HeightCm    *float64
}

// OrderAction is one audit trail entry, exploded from the document's
// order_actions array. Geo coordinates are lifted out of the nested
// geo_location object.
type OrderAction struct {
	ActionID      string
	OrderID       string
	ActionType    *string
	Status        *string
	OccurredAt    *time.Time
	PerformedBy   *string
	PerformedByID *string
	Notes         *string
	Latitude      *float64
	Longitude     *float64
	DriverID      *string
	SignatureURL  *string
	PhotoURL      *string
	ReceivedBy    *string
}

// OrderNotes holds the free-text note fields of an order, keyed by OrderID.
type OrderNotes struct {
	OrderID       string
	CustomerNotes *string
	MerchantNotes *string
	DriverNotes   *string
	InternalNotes *string
}

// OrderMetadata holds acquisition and feedback attributes of an order,
// keyed by OrderID.
type OrderMetadata struct {
	OrderID          string
	SourcePlatform   *string
	AppVersion       *string
	DeviceType       *string
	PromoCode        *string
	IsFirstOrder     *bool
	CustomerRating   *int64
	CustomerFeedback *string
	DriverRating     *int64
	RatedAt          *time.Time
}

// OrderBundle is the fully normalized output for one order document.
//
// Dimension pointers (Customer, Merchant, Driver) and the Addresses slice
// carry only FIRST occurrences within a run: when an entity was already
// produced by an earlier document of the same run, the pointer is nil (or
// the address is omitted) and the Order row references the identifier
// registered by that earlier document.
//
// The 1:1 children (Payment, Tracking, Notes, Metadata) are always
// populated. When the corresponding document section is absent the row
// carries the OrderID and nothing else, loading as all-NULL attributes.
type OrderBundle struct {
	SourceFile string

	Order    Order
	Payment  Payment
	Tracking Tracking
	Notes    OrderNotes
	Metadata OrderMetadata

	Items   []Item
	Actions []OrderAction

	Customer  *Customer
	Merchant  *Merchant
	Driver    *Driver
	Addresses []Address
}
