package normalize

import (
	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

// OrderNormalizer implements orderpipe.Normalizer. It flattens one order
// document at a time, consulting its Registry so dimension entities are
// emitted once per run.
type OrderNormalizer struct {
	registry *Registry
}

// Compile-time interface compliance check
var _ orderpipe.Normalizer = (*OrderNormalizer)(nil)

// New creates an OrderNormalizer bound to a run-scoped registry.
//
// Panics if registry is nil (programmer error).
func New(registry *Registry) *OrderNormalizer {
	if registry == nil {
		panic("registry cannot be nil")
	}
	return &OrderNormalizer{registry: registry}
}

// Normalize validates and flattens a raw order document into an
// OrderBundle. The input record is never mutated; any failure rejects the
// record as a whole.
func (n *OrderNormalizer) Normalize(rec orderpipe.RawRecord) (orderpipe.OrderBundle, error) {
	var bundle orderpipe.OrderBundle
	bundle.SourceFile = rec.FileName

	root := newSection(rec.FileName, rec.Data)

	orderID, err := root.requireString("order_id")
	if err != nil {
		return bundle, err
	}

	// Addresses come first so the order row can reference their hashes.
	pickupID, err := n.normalizeAddressRef(root, "pickup_address", &bundle)
	if err != nil {
		return bundle, err
	}
	dropoffID, err := n.normalizeAddressRef(root, "dropoff_address", &bundle)
	if err != nil {
		return bundle, err
	}

	customerID, err := n.normalizeCustomer(root, &bundle)
	if err != nil {
		return bundle, err
	}
	merchantID, err := n.normalizeMerchant(root, &bundle)
	if err != nil {
		return bundle, err
	}
	driverID, err := n.normalizeDriver(root, &bundle)
	if err != nil {
		return bundle, err
	}

	if bundle.Order, err = normalizeOrder(root, orderID); err != nil {
		return bundle, err
	}
	bundle.Order.CustomerID = customerID
	bundle.Order.MerchantID = merchantID
	bundle.Order.DriverID = driverID
	bundle.Order.PickupAddressID = pickupID
	bundle.Order.DropoffAddressID = dropoffID

	if bundle.Payment, err = normalizePayment(root, orderID); err != nil {
		return bundle, err
	}
	if bundle.Tracking, err = normalizeTracking(root, orderID); err != nil {
		return bundle, err
	}
	if bundle.Notes, err = normalizeNotes(root, orderID); err != nil {
		return bundle, err
	}
	if bundle.Metadata, err = normalizeMetadata(root, orderID); err != nil {
		return bundle, err
	}

	if bundle.Items, err = normalizeItems(root, orderID); err != nil {
		return bundle, err
	}
	if bundle.Actions, err = normalizeActions(root, orderID); err != nil {
		return bundle, err
	}

	return bundle, nil
}

// normalizeAddressRef processes one of the two address sections. When the
// section is present its hash is returned for the order row, and the row
// itself joins the bundle only on first occurrence within the run.
func (n *OrderNormalizer) normalizeAddressRef(root section, field string, bundle *orderpipe.OrderBundle) (*string, error) {
	sec, present, err := root.child(field)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}

	addr, err := normalizeAddress(sec)
	if err != nil {
		return nil, err
	}

	id, first := n.registry.Resolve("addresses", addr.AddressID, addr.AddressID)
	if first {
		bundle.Addresses = append(bundle.Addresses, addr)
	}
	return &id, nil
}

func (n *OrderNormalizer) normalizeCustomer(root section, bundle *orderpipe.OrderBundle) (*string, error) {
	sec, present, err := root.child("customer")
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}

	var c orderpipe.Customer
	if c.CustomerID, err = sec.requireString("customer_id"); err != nil {
		return nil, err
	}

	// Phone is the natural key for cross-document identity.
	phone, phoneErr := sec.requireString("phone")
	if phoneErr != nil {
		return nil, &orderpipe.KeyResolutionError{File: root.file, Table: "customers", Field: "customer.phone"}
	}
	c.Phone = phone

	if c.FirstName, err = sec.optString("first_name"); err != nil {
		return nil, err
	}
	if c.LastName, err = sec.optString("last_name"); err != nil {
		return nil, err
	}
	if c.Email, err = sec.optString("email"); err != nil {
		return nil, err
	}
	if c.IsVerified, err = sec.optBool("is_verified"); err != nil {
		return nil, err
	}

	id, first := n.registry.Resolve("customers", c.Phone, c.CustomerID)
	if first {
		bundle.Customer = &c
	}
	return &id, nil
}

func (n *OrderNormalizer) normalizeMerchant(root section, bundle *orderpipe.OrderBundle) (*string, error) {
	sec, present, err := root.child("merchant")
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}

	var m orderpipe.Merchant
	if m.MerchantID, err = sec.requireString("merchant_id"); err != nil {
		return nil, &orderpipe.KeyResolutionError{File: root.file, Table: "merchants", Field: "merchant.merchant_id"}
	}

	if m.BusinessName, err = sec.optString("business_name"); err != nil {
		return nil, err
	}
	if m.ContactName, err = sec.optString("contact_name"); err != nil {
		return nil, err
	}
	if m.Phone, err = sec.optString("phone"); err != nil {
		return nil, err
	}
	if m.Email, err = sec.optString("email"); err != nil {
		return nil, err
	}
	if m.Category, err = sec.optString("category"); err != nil {
		return nil, err
	}

	id, first := n.registry.Resolve("merchants", m.MerchantID, m.MerchantID)
	if first {
		bundle.Merchant = &m
	}
	return &id, nil
}

func (n *OrderNormalizer) normalizeDriver(root section, bundle *orderpipe.OrderBundle) (*string, error) {
	sec, present, err := root.child("driver")
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}

	var d orderpipe.Driver
	if d.DriverID, err = sec.requireString("driver_id"); err != nil {
		return nil, &orderpipe.KeyResolutionError{File: root.file, Table: "drivers", Field: "driver.driver_id"}
	}

	if d.FirstName, err = sec.optString("first_name"); err != nil {
		return nil, err
	}
	if d.LastName, err = sec.optString("last_name"); err != nil {
		return nil, err
	}
	if d.Phone, err = sec.optString("phone"); err != nil {
		return nil, err
	}
	if d.VehicleType, err = sec.optString("vehicle_type"); err != nil {
		return nil, err
	}
	if d.VehiclePlate, err = sec.optString("vehicle_plate"); err != nil {
		return nil, err
	}
	if d.Rating, err = sec.optFloat("rating"); err != nil {
		return nil, err
	}
	if d.TotalDeliveries, err = sec.optInt("total_deliveries"); err != nil {
		return nil, err
	}

	id, first := n.registry.Resolve("drivers", d.DriverID, d.DriverID)
	if first {
		bundle.Driver = &d
	}
	return &id, nil
}

func normalizeOrder(root section, orderID string) (orderpipe.Order, error) {
	var (
		o   orderpipe.Order
		err error
	)
	o.OrderID = orderID

	if o.OrderNumber, err = root.optString("order_number"); err != nil {
		return o, err
	}
	if o.OrderType, err = root.optString("order_type"); err != nil {
		return o, err
	}
	if o.OrderStatus, err = root.optString("order_status"); err != nil {
		return o, err
	}
	if o.CreatedAt, err = root.optTime("created_at"); err != nil {
		return o, err
	}
	if o.UpdatedAt, err = root.optTime("updated_at"); err != nil {
		return o, err
	}
	if o.ScheduledPickupTime, err = root.optTime("scheduled_pickup_time"); err != nil {
		return o, err
	}
	if o.ActualPickupTime, err = root.optTime("actual_pickup_time"); err != nil {
		return o, err
	}
	if o.ScheduledDeliveryTime, err = root.optTime("scheduled_delivery_time"); err != nil {
		return o, err
	}
	if o.ActualDeliveryTime, err = root.optTime("actual_delivery_time"); err != nil {
		return o, err
	}

	return o, nil
}

func normalizePayment(root section, orderID string) (orderpipe.Payment, error) {
	p := orderpipe.Payment{OrderID: orderID}

	sec, present, err := root.child("payment")
	if err != nil || !present {
		return p, err
	}

	if p.PaymentID, err = sec.optString("payment_id"); err != nil {
		return p, err
	}
	if p.PaymentMethod, err = sec.optString("payment_method"); err != nil {
		return p, err
	}
	if p.PaymentStatus, err = sec.optString("payment_status"); err != nil {
		return p, err
	}
	if p.Currency, err = sec.optString("currency"); err != nil {
		return p, err
	}
	if p.Subtotal, err = sec.optFloat("subtotal"); err != nil {
		return p, err
	}
	if p.DeliveryFee, err = sec.optFloat("delivery_fee"); err != nil {
		return p, err
	}
	if p.ServiceFee, err = sec.optFloat("service_fee"); err != nil {
		return p, err
	}
	if p.DiscountAmount, err = sec.optFloat("discount_amount"); err != nil {
		return p, err
	}
	if p.TotalAmount, err = sec.optFloat("total_amount"); err != nil {
		return p, err
	}
	if p.CollectedAmount, err = sec.optFloat("collected_amount"); err != nil {
		return p, err
	}
	if p.IsPaidBack, err = sec.optBool("is_paid_back"); err != nil {
		return p, err
	}
	if p.CollectedAt, err = sec.optTime("collected_at"); err != nil {
		return p, err
	}
	if p.BusinessCollectionDate, err = sec.optTime("business_collection_date"); err != nil {
		return p, err
	}
	if p.BusinessCollectionStatus, err = sec.optString("business_collection_status"); err != nil {
		return p, err
	}

	return p, nil
}

func normalizeTracking(root section, orderID string) (orderpipe.Tracking, error) {
	t := orderpipe.Tracking{OrderID: orderID}

	sec, present, err := root.child("tracking")
	if err != nil || !present {
		return t, err
	}

	if t.TrackerID, err = sec.optString("tracker_id"); err != nil {
		return t, err
	}
	if t.TrackingURL, err = sec.optString("tracking_url"); err != nil {
		return t, err
	}
	if t.CurrentStatus, err = sec.optString("current_status"); err != nil {
		return t, err
	}
	if t.EstimatedDeliveryTime, err = sec.optTime("estimated_delivery_time"); err != nil {
		return t, err
	}

	return t, nil
}

func normalizeNotes(root section, orderID string) (orderpipe.OrderNotes, error) {
	n := orderpipe.OrderNotes{OrderID: orderID}

	sec, present, err := root.child("notes")
	if err != nil || !present {
		return n, err
	}

	if n.CustomerNotes, err = sec.optString("customer_notes"); err != nil {
		return n, err
	}
	if n.MerchantNotes, err = sec.optString("merchant_notes"); err != nil {
		return n, err
	}
	if n.DriverNotes, err = sec.optString("driver_notes"); err != nil {
		return n, err
	}
	if n.InternalNotes, err = sec.optString("internal_notes"); err != nil {
		return n, err
	}

	return n, nil
}

func normalizeMetadata(root section, orderID string) (orderpipe.OrderMetadata, error) {
	m := orderpipe.OrderMetadata{OrderID: orderID}

	sec, present, err := root.child("metadata")
	if err != nil || !present {
		return m, err
	}

	if m.SourcePlatform, err = sec.optString("source_platform"); err != nil {
		return m, err
	}
	if m.AppVersion, err = sec.optString("app_version"); err != nil {
		return m, err
	}
	if m.DeviceType, err = sec.optString("device_type"); err != nil {
		return m, err
	}
	if m.PromoCode, err = sec.optString("promo_code"); err != nil {
		return m, err
	}
	if m.IsFirstOrder, err = sec.optBool("is_first_order"); err != nil {
		return m, err
	}
	if m.CustomerRating, err = sec.optInt("customer_rating"); err != nil {
		return m, err
	}
	if m.CustomerFeedback, err = sec.optString("customer_feedback"); err != nil {
		return m, err
	}
	if m.DriverRating, err = sec.optInt("driver_rating"); err != nil {
		return m, err
	}
	if m.RatedAt, err = sec.optTime("rated_at"); err != nil {
		return m, err
	}

	return m, nil
}

func normalizeItems(root section, orderID string) ([]orderpipe.Item, error) {
	sections, err := root.childArray("items")
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, nil
	}

	items := make([]orderpipe.Item, 0, len(sections))
	for _, sec := range sections {
		var it orderpipe.Item
		it.OrderID = orderID

		if it.ItemID, err = sec.requireString("item_id"); err != nil {
			return nil, err
		}
		if it.SKU, err = sec.optString("sku"); err != nil {
			return nil, err
		}
		if it.Name, err = sec.optString("name"); err != nil {
			return nil, err
		}
		if it.Description, err = sec.optString("description"); err != nil {
			return nil, err
		}
		if it.Category, err = sec.optString("category"); err != nil {
			return nil, err
		}
		if it.Quantity, err = sec.optInt("quantity"); err != nil {
			return nil, err
		}
		if it.UnitPrice, err = sec.optFloat("unit_price"); err != nil {
			return nil, err
		}
		if it.TotalPrice, err = sec.optFloat("total_price"); err != nil {
			return nil, err
		}
		if it.WeightKg, err = sec.optFloat("weight_kg"); err != nil {
			return nil, err
		}
		if it.LengthCm, err = sec.optFloat("length_cm"); err != nil {
			return nil, err
		}
		if it.WidthCm, err = sec.optFloat("width_cm"); err != nil {
			return nil, err
		}
		if it.HeightCm, err = sec.optFloat("height_cm"); err != nil {
			return nil, err
		}

		items = append(items, it)
	}
	return items, nil
}

func normalizeActions(root section, orderID string) ([]orderpipe.OrderAction, error) {
	sections, err := root.childArray("order_actions")
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, nil
	}

	actions := make([]orderpipe.OrderAction, 0, len(sections))
	for _, sec := range sections {
		var a orderpipe.OrderAction
		a.OrderID = orderID

		if a.ActionID, err = sec.requireString("action_id"); err != nil {
			return nil, err
		}
		if a.ActionType, err = sec.optString("action_type"); err != nil {
			return nil, err
		}
		if a.Status, err = sec.optString("status"); err != nil {
			return nil, err
		}
		if a.OccurredAt, err = sec.optTime("timestamp"); err != nil {
			return nil, err
		}
		if a.PerformedBy, err = sec.optString("performed_by"); err != nil {
			return nil, err
		}
		if a.PerformedByID, err = sec.optString("performed_by_id"); err != nil {
			return nil, err
		}
		if a.Notes, err = sec.optString("notes"); err != nil {
			return nil, err
		}

		// Coordinates live in a nested geo_location object
		geo, present, err := sec.child("geo_location")
		if err != nil {
			return nil, err
		}
		if present {
			if a.Latitude, err = geo.optFloat("latitude"); err != nil {
				return nil, err
			}
			if a.Longitude, err = geo.optFloat("longitude"); err != nil {
				return nil, err
			}
		}

		if a.DriverID, err = sec.optString("driver_id"); err != nil {
			return nil, err
		}
		if a.SignatureURL, err = sec.optString("signature_url"); err != nil {
			return nil, err
		}
		if a.PhotoURL, err = sec.optString("photo_url"); err != nil {
			return nil, err
		}
		if a.ReceivedBy, err = sec.optString("received_by"); err != nil {
			return nil, err
		}

		actions = append(actions, a)
	}
	return actions, nil
}
