package constants

// Redis key formats
const (
	KeyOrderCache = "tracking:order:%s" // Format: tracking:order:{order_id}
)

// Redis hash fields
const (
	FieldCustomerID  = "customer_id"
	FieldCourierID   = "courier_id"
	FieldStatus      = "status"
	FieldDeliveryLat = "delivery_lat"
	FieldDeliveryLng = "delivery_lng"
)
