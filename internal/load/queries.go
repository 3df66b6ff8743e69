package load

// Dimension upserts always merge on the natural key and return the
// surviving identifier, so the loader can remap foreign keys when an
// earlier run registered the same entity under a different feed id.

const upsertCustomerSQL = `
INSERT INTO customers (customer_id, first_name, last_name, phone, email, is_verified)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (phone) DO UPDATE SET
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    email = EXCLUDED.email,
    is_verified = EXCLUDED.is_verified
RETURNING customer_id`

const upsertMerchantSQL = `
INSERT INTO merchants (merchant_id, business_name, contact_name, phone, email, category)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (merchant_id) DO UPDATE SET
    business_name = EXCLUDED.business_name,
    contact_name = EXCLUDED.contact_name,
    phone = EXCLUDED.phone,
    email = EXCLUDED.email,
    category = EXCLUDED.category
RETURNING merchant_id`

const upsertDriverSQL = `
INSERT INTO drivers (driver_id, first_name, last_name, phone, vehicle_type, vehicle_plate, rating, total_deliveries)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (driver_id) DO UPDATE SET
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    phone = EXCLUDED.phone,
    vehicle_type = EXCLUDED.vehicle_type,
    vehicle_plate = EXCLUDED.vehicle_plate,
    rating = EXCLUDED.rating,
    total_deliveries = EXCLUDED.total_deliveries
RETURNING driver_id`

// Address rows are content-addressed, so a conflict means the same
// location was seen before. Only the descriptive extras are refreshed;
// the identifying fields are equal by construction.
const upsertAddressSQL = `
INSERT INTO addresses (address_id, floor, apartment, building, street, area, city, district,
    governorate, postal_code, country, country_code, latitude, longitude, landmark, special_instructions)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (address_id) DO UPDATE SET
    floor = EXCLUDED.floor,
    apartment = EXCLUDED.apartment,
    building = EXCLUDED.building,
    landmark = EXCLUDED.landmark,
    special_instructions = EXCLUDED.special_instructions
RETURNING address_id`

const orderColumnsSQL = `orders (order_id, order_number, order_type, order_status, created_at, updated_at,
    scheduled_pickup_time, actual_pickup_time, scheduled_delivery_time, actual_delivery_time,
    customer_id, merchant_id, driver_id, pickup_address_id, dropoff_address_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

const insertOrderSQL = `INSERT INTO ` + orderColumnsSQL

const upsertOrderSQL = `INSERT INTO ` + orderColumnsSQL + `
ON CONFLICT (order_id) DO UPDATE SET
    order_number = EXCLUDED.order_number,
    order_type = EXCLUDED.order_type,
    order_status = EXCLUDED.order_status,
    created_at = EXCLUDED.created_at,
    updated_at = EXCLUDED.updated_at,
    scheduled_pickup_time = EXCLUDED.scheduled_pickup_time,
    actual_pickup_time = EXCLUDED.actual_pickup_time,
    scheduled_delivery_time = EXCLUDED.scheduled_delivery_time,
    actual_delivery_time = EXCLUDED.actual_delivery_time,
    customer_id = EXCLUDED.customer_id,
    merchant_id = EXCLUDED.merchant_id,
    driver_id = EXCLUDED.driver_id,
    pickup_address_id = EXCLUDED.pickup_address_id,
    dropoff_address_id = EXCLUDED.dropoff_address_id`

const paymentColumnsSQL = `payments (order_id, payment_id, payment_method, payment_status, currency,
    subtotal, delivery_fee, service_fee, discount_amount, total_amount, collected_amount,
    is_paid_back, collected_at, business_collection_date, business_collection_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

const insertPaymentSQL = `INSERT INTO ` + paymentColumnsSQL

const upsertPaymentSQL = `INSERT INTO ` + paymentColumnsSQL + `
ON CONFLICT (order_id) DO UPDATE SET
    payment_id = EXCLUDED.payment_id,
    payment_method = EXCLUDED.payment_method,
    payment_status = EXCLUDED.payment_status,
    currency = EXCLUDED.currency,
    subtotal = EXCLUDED.subtotal,
    delivery_fee = EXCLUDED.delivery_fee,
    service_fee = EXCLUDED.service_fee,
    discount_amount = EXCLUDED.discount_amount,
    total_amount = EXCLUDED.total_amount,
    collected_amount = EXCLUDED.collected_amount,
    is_paid_back = EXCLUDED.is_paid_back,
    collected_at = EXCLUDED.collected_at,
    business_collection_date = EXCLUDED.business_collection_date,
    business_collection_status = EXCLUDED.business_collection_status`

const trackingColumnsSQL = `tracking (order_id, tracker_id, tracking_url, current_status, estimated_delivery_time)
VALUES ($1, $2, $3, $4, $5)`

const insertTrackingSQL = `INSERT INTO ` + trackingColumnsSQL

const upsertTrackingSQL = `INSERT INTO ` + trackingColumnsSQL + `
ON CONFLICT (order_id) DO UPDATE SET
    tracker_id = EXCLUDED.tracker_id,
    tracking_url = EXCLUDED.tracking_url,
    current_status = EXCLUDED.current_status,
    estimated_delivery_time = EXCLUDED.estimated_delivery_time`

const notesColumnsSQL = `order_notes (order_id, customer_notes, merchant_notes, driver_notes, internal_notes)
VALUES ($1, $2, $3, $4, $5)`

const insertNotesSQL = `INSERT INTO ` + notesColumnsSQL

const upsertNotesSQL = `INSERT INTO ` + notesColumnsSQL + `
ON CONFLICT (order_id) DO UPDATE SET
    customer_notes = EXCLUDED.customer_notes,
    merchant_notes = EXCLUDED.merchant_notes,
    driver_notes = EXCLUDED.driver_notes,
    internal_notes = EXCLUDED.internal_notes`

const metadataColumnsSQL = `order_metadata (order_id, source_platform, app_version, device_type, promo_code,
    is_first_order, customer_rating, customer_feedback, driver_rating, rated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const insertMetadataSQL = `INSERT INTO ` + metadataColumnsSQL

const upsertMetadataSQL = `INSERT INTO ` + metadataColumnsSQL + `
ON CONFLICT (order_id) DO UPDATE SET
    source_platform = EXCLUDED.source_platform,
    app_version = EXCLUDED.app_version,
    device_type = EXCLUDED.device_type,
    promo_code = EXCLUDED.promo_code,
    is_first_order = EXCLUDED.is_first_order,
    customer_rating = EXCLUDED.customer_rating,
    customer_feedback = EXCLUDED.customer_feedback,
    driver_rating = EXCLUDED.driver_rating,
    rated_at = EXCLUDED.rated_at`

const itemColumnsSQL = `items (item_id, order_id, sku, name, description, category, quantity,
    unit_price, total_price, weight_kg, length_cm, width_cm, height_cm)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const insertItemSQL = `INSERT INTO ` + itemColumnsSQL

const upsertItemSQL = `INSERT INTO ` + itemColumnsSQL + `
ON CONFLICT (item_id) DO UPDATE SET
    order_id = EXCLUDED.order_id,
    sku = EXCLUDED.sku,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    quantity = EXCLUDED.quantity,
    unit_price = EXCLUDED.unit_price,
    total_price = EXCLUDED.total_price,
    weight_kg = EXCLUDED.weight_kg,
    length_cm = EXCLUDED.length_cm,
    width_cm = EXCLUDED.width_cm,
    height_cm = EXCLUDED.height_cm`

const actionColumnsSQL = `order_actions (action_id, order_id, action_type, status, occurred_at,
    performed_by, performed_by_id, notes, latitude, longitude, driver_id, signature_url, photo_url, received_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

const insertActionSQL = `INSERT INTO ` + actionColumnsSQL

const upsertActionSQL = `INSERT INTO ` + actionColumnsSQL + `
ON CONFLICT (action_id) DO UPDATE SET
    order_id = EXCLUDED.order_id,
    action_type = EXCLUDED.action_type,
    status = EXCLUDED.status,
    occurred_at = EXCLUDED.occurred_at,
    performed_by = EXCLUDED.performed_by,
    performed_by_id = EXCLUDED.performed_by_id,
    notes = EXCLUDED.notes,
    latitude = EXCLUDED.latitude,
    longitude = EXCLUDED.longitude,
    driver_id = EXCLUDED.driver_id,
    signature_url = EXCLUDED.signature_url,
    photo_url = EXCLUDED.photo_url,
    received_by = EXCLUDED.received_by`
