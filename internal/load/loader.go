// Package load writes normalized order bundles to PostgreSQL inside a
// single all-or-nothing transaction.
package load

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

// TxLoader implements orderpipe.Loader. All bundles of a run are written
// in one transaction on a single acquired connection: any statement
// failure rolls the whole run back.
type TxLoader struct {
	logger orderpipe.Logger
	policy orderpipe.ConflictPolicy
}

// Compile-time interface compliance check
var _ orderpipe.Loader = (*TxLoader)(nil)

// New creates a TxLoader. An empty policy defaults to ConflictUpsert.
//
// Panics if logger is nil or the policy is unknown (programmer error -
// RunConfig.Validate rejects bad policies before a loader is built).
func New(logger orderpipe.Logger, policy orderpipe.ConflictPolicy) *TxLoader {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if policy == "" {
		policy = orderpipe.ConflictUpsert
	}
	if !policy.IsValid() {
		panic("invalid conflict policy: " + string(policy))
	}

	return &TxLoader{logger: logger, policy: policy}
}

// Load writes all bundles inside one transaction and returns per-table
// row counts. Write order within each bundle satisfies foreign keys:
// dimensions first, then the order row, then its children.
func (l *TxLoader) Load(ctx context.Context, conn *pgxpool.Conn, bundles []orderpipe.OrderBundle) (orderpipe.TableCounts, error) {
	counts := make(orderpipe.TableCounts)
	if len(bundles) == 0 {
		return counts, nil
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning load transaction: %w", errors.Join(orderpipe.ErrLoadFailed, err))
	}
	// Rollback is a no-op once the transaction committed
	defer tx.Rollback(ctx) //nolint:errcheck

	// Remaps feed customer ids to the identifiers that survived the
	// phone-keyed upsert, covering customers known from earlier runs
	// under a different id.
	idRemap := make(map[string]string)

	for i := range bundles {
		if err := l.loadBundle(ctx, tx, bundles[i], counts, idRemap); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing load transaction: %w", errors.Join(orderpipe.ErrLoadFailed, err))
	}

	l.logger.Verbose("committed %d rows across %d tables", counts.Total(), len(counts))
	return counts, nil
}

func (l *TxLoader) loadBundle(ctx context.Context, tx pgx.Tx, b orderpipe.OrderBundle, counts orderpipe.TableCounts, idRemap map[string]string) error {
	if b.Customer != nil {
		c := b.Customer
		var dbID string
		err := tx.QueryRow(ctx, upsertCustomerSQL,
			c.CustomerID, c.FirstName, c.LastName, c.Phone, c.Email, c.IsVerified,
		).Scan(&dbID)
		if err != nil {
			return &orderpipe.LoadError{Table: "customers", File: b.SourceFile, Err: err}
		}
		if dbID != c.CustomerID {
			idRemap[c.CustomerID] = dbID
		}
		counts["customers"]++
	}

	if b.Merchant != nil {
		m := b.Merchant
		var dbID string
		err := tx.QueryRow(ctx, upsertMerchantSQL,
			m.MerchantID, m.BusinessName, m.ContactName, m.Phone, m.Email, m.Category,
		).Scan(&dbID)
		if err != nil {
			return &orderpipe.LoadError{Table: "merchants", File: b.SourceFile, Err: err}
		}
		counts["merchants"]++
	}

	if b.Driver != nil {
		d := b.Driver
		var dbID string
		err := tx.QueryRow(ctx, upsertDriverSQL,
			d.DriverID, d.FirstName, d.LastName, d.Phone, d.VehicleType, d.VehiclePlate, d.Rating, d.TotalDeliveries,
		).Scan(&dbID)
		if err != nil {
			return &orderpipe.LoadError{Table: "drivers", File: b.SourceFile, Err: err}
		}
		counts["drivers"]++
	}

	for _, a := range b.Addresses {
		var dbID string
		err := tx.QueryRow(ctx, upsertAddressSQL,
			a.AddressID, a.Floor, a.Apartment, a.Building, a.Street, a.Area, a.City, a.District,
			a.Governorate, a.PostalCode, a.Country, a.CountryCode, a.Latitude, a.Longitude,
			a.Landmark, a.SpecialInstructions,
		).Scan(&dbID)
		if err != nil {
			return &orderpipe.LoadError{Table: "addresses", File: b.SourceFile, Err: err}
		}
		counts["addresses"]++
	}

	// The order row references the surviving customer identity
	order := b.Order
	if order.CustomerID != nil {
		if mapped, ok := idRemap[*order.CustomerID]; ok {
			order.CustomerID = &mapped
		}
	}

	orderSQL := upsertOrderSQL
	if l.policy == orderpipe.ConflictFail {
		orderSQL = insertOrderSQL
	}
	_, err := tx.Exec(ctx, orderSQL,
		order.OrderID, order.OrderNumber, order.OrderType, order.OrderStatus,
		order.CreatedAt, order.UpdatedAt, order.ScheduledPickupTime, order.ActualPickupTime,
		order.ScheduledDeliveryTime, order.ActualDeliveryTime,
		order.CustomerID, order.MerchantID, order.DriverID,
		order.PickupAddressID, order.DropoffAddressID,
	)
	if err != nil {
		return &orderpipe.LoadError{Table: "orders", File: b.SourceFile, Err: err}
	}
	counts["orders"]++

	if err := l.loadOrderChildren(ctx, tx, b, counts); err != nil {
		return err
	}

	l.logger.Verbose("loaded order %s from %s", order.OrderID, b.SourceFile)
	return nil
}

func (l *TxLoader) loadOrderChildren(ctx context.Context, tx pgx.Tx, b orderpipe.OrderBundle, counts orderpipe.TableCounts) error {
	upsert := l.policy == orderpipe.ConflictUpsert

	paymentSQL := insertPaymentSQL
	if upsert {
		paymentSQL = upsertPaymentSQL
	}
	p := b.Payment
	if _, err := tx.Exec(ctx, paymentSQL,
		p.OrderID, p.PaymentID, p.PaymentMethod, p.PaymentStatus, p.Currency,
		p.Subtotal, p.DeliveryFee, p.ServiceFee, p.DiscountAmount, p.TotalAmount,
		p.CollectedAmount, p.IsPaidBack, p.CollectedAt, p.BusinessCollectionDate, p.BusinessCollectionStatus,
	); err != nil {
		return &orderpipe.LoadError{Table: "payments", File: b.SourceFile, Err: err}
	}
	counts["payments"]++

	trackingSQL := insertTrackingSQL
	if upsert {
		trackingSQL = upsertTrackingSQL
	}
	t := b.Tracking
	if _, err := tx.Exec(ctx, trackingSQL,
		t.OrderID, t.TrackerID, t.TrackingURL, t.CurrentStatus, t.EstimatedDeliveryTime,
	); err != nil {
		return &orderpipe.LoadError{Table: "tracking", File: b.SourceFile, Err: err}
	}
	counts["tracking"]++

	notesSQL := insertNotesSQL
	if upsert {
		notesSQL = upsertNotesSQL
	}
	n := b.Notes
	if _, err := tx.Exec(ctx, notesSQL,
		n.OrderID, n.CustomerNotes, n.MerchantNotes, n.DriverNotes, n.InternalNotes,
	); err != nil {
		return &orderpipe.LoadError{Table: "order_notes", File: b.SourceFile, Err: err}
	}
	counts["order_notes"]++

	metadataSQL := insertMetadataSQL
	if upsert {
		metadataSQL = upsertMetadataSQL
	}
	m := b.Metadata
	if _, err := tx.Exec(ctx, metadataSQL,
		m.OrderID, m.SourcePlatform, m.AppVersion, m.DeviceType, m.PromoCode,
		m.IsFirstOrder, m.CustomerRating, m.CustomerFeedback, m.DriverRating, m.RatedAt,
	); err != nil {
		return &orderpipe.LoadError{Table: "order_metadata", File: b.SourceFile, Err: err}
	}
	counts["order_metadata"]++

	if err := l.loadItems(ctx, tx, b, counts); err != nil {
		return err
	}
	return l.loadActions(ctx, tx, b, counts)
}

// loadItems writes the line items of one order through a single batch
// round trip.
func (l *TxLoader) loadItems(ctx context.Context, tx pgx.Tx, b orderpipe.OrderBundle, counts orderpipe.TableCounts) error {
	if len(b.Items) == 0 {
		return nil
	}

	itemSQL := insertItemSQL
	if l.policy == orderpipe.ConflictUpsert {
		itemSQL = upsertItemSQL
	}

	batch := &pgx.Batch{}
	for _, it := range b.Items {
		batch.Queue(itemSQL,
			it.ItemID, it.OrderID, it.SKU, it.Name, it.Description, it.Category,
			it.Quantity, it.UnitPrice, it.TotalPrice, it.WeightKg, it.LengthCm, it.WidthCm, it.HeightCm,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range b.Items {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck
			return &orderpipe.LoadError{Table: "items", File: b.SourceFile, Err: err}
		}
	}
	if err := br.Close(); err != nil {
		return &orderpipe.LoadError{Table: "items", File: b.SourceFile, Err: err}
	}

	counts["items"] += len(b.Items)
	return nil
}

// loadActions writes the audit trail entries of one order through a
// single batch round trip.
func (l *TxLoader) loadActions(ctx context.Context, tx pgx.Tx, b orderpipe.OrderBundle, counts orderpipe.TableCounts) error {
	if len(b.Actions) == 0 {
		return nil
	}

	actionSQL := insertActionSQL
	if l.policy == orderpipe.ConflictUpsert {
		actionSQL = upsertActionSQL
	}

	batch := &pgx.Batch{}
	for _, a := range b.Actions {
		batch.Queue(actionSQL,
			a.ActionID, a.OrderID, a.ActionType, a.Status, a.OccurredAt,
			a.PerformedBy, a.PerformedByID, a.Notes, a.Latitude, a.Longitude,
			a.DriverID, a.SignatureURL, a.PhotoURL, a.ReceivedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range b.Actions {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck
			return &orderpipe.LoadError{Table: "order_actions", File: b.SourceFile, Err: err}
		}
	}
	if err := br.Close(); err != nil {
		return &orderpipe.LoadError{Table: "order_actions", File: b.SourceFile, Err: err}
	}

	counts["order_actions"] += len(b.Actions)
	return nil
}
