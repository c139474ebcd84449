package constants

// response messages
const (
	ERROR_INTERNAL_ERROR       = "Internal server error"
	ERROR_PARSE_DATA_TO_LOCALS = "Cannot read request data"
	ERROR_INPUT                = "Invalid input"
	DATA_INPUT_IS_NOT_NUMBER   = "Path parameter must be a number"
	NOT_FOUND_RECORDS          = "Record not found"
	MISSING_LOGIN_INPUT        = "Username and password are required"
	INVALID_PASSWORD           = "Invalid username or password"
	CAN_NOT_HASH_PASSWORD      = "Cannot hash password"
	ACCOUNT_NOT_ACTIVE         = "Account is not active"
	USERNAME_EXISTS            = "Username already exists"
	EMAIL_EXISTS               = "Email already exists"
	MISSING_TOKEN              = "Missing token"
	INVALID_TOKEN              = "Invalid token"

	NO_ITEMS_SELECTED        = "No items selected"
	ORDER_NOT_FOUND          = "Order not found"
	PAYMENT_NOT_FOUND        = "Payment not found"
	PRODUCT_NOT_FOUND        = "Product not found"
	CART_ITEM_NOT_FOUND      = "Cart item not found"
	AMOUNT_MISMATCH          = "Payment amount does not match order total"
	PAYMENT_ALREADY_PAID     = "Payment already processed"
	PAYMENT_NOT_PENDING      = "Payment is not pending"
	ORDER_NOT_PENDING        = "Order is not pending"
	PAYMENT_NOT_AVAILABLE_QR = "Order has no pending gateway payment"
	TOO_MANY_REQUESTS        = "Too many requests"
)

// VNPay IPN response codes
const (
	IPN_SUCCESS           = "00"
	IPN_ORDER_NOT_FOUND   = "01"
	IPN_ALREADY_CONFIRMED = "02"
	IPN_INVALID_AMOUNT    = "04"
	IPN_INVALID_CHECKSUM  = "97"
	IPN_UNKNOWN_ERROR     = "99"
)

const (
	LOCALS_USER_ID = "userId"
	LOCALS_INPUT   = "input"
	LOCALS_ID      = "inputId"

	ORDER_CODE_PREFIX = "ORD-"
	ORDER_INFO_PREFIX = "Thanh toan don hang #"
	TIMEZONE          = "Asia/Ho_Chi_Minh"
)
