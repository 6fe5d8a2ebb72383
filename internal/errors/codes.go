package errors

// Error codes returned in the "error" field of every error body.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to localized copy.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized   = "AUTH_UNAUTHORIZED"    // login required
	AuthTokenExpired   = "AUTH_TOKEN_EXPIRED"   // access token expired
	AuthTokenInvalid   = "AUTH_TOKEN_INVALID"   // malformed or forged token
	AuthTokenRevoked   = "AUTH_TOKEN_REVOKED"   // signed out
	AuthCodeInvalid    = "AUTH_CODE_INVALID"    // wrong one-time code
	AuthResendCooldown = "AUTH_RESEND_COOLDOWN" // resend requested too early
	AuthFlowNotFound   = "AUTH_FLOW_NOT_FOUND"  // login flow expired or unknown
	AuthInvalidStep    = "AUTH_INVALID_STEP"    // transition not allowed from current step

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden       = "AUTHZ_FORBIDDEN"
	AuthzDemoUnsupported = "AUTHZ_DEMO_UNSUPPORTED" // feature unavailable to demo identities

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Address (ADDRESS_) ====================
	AddressNotFound = "ADDRESS_NOT_FOUND"

	// ==================== Checkout (CHECKOUT_) ====================
	CheckoutNotFound        = "CHECKOUT_NOT_FOUND"
	CheckoutStepIncomplete  = "CHECKOUT_STEP_INCOMPLETE"
	CheckoutInvalidStep     = "CHECKOUT_INVALID_STEP"
	CheckoutInvalidDelivery = "CHECKOUT_INVALID_DELIVERY"

	// ==================== Payment (PAYMENT_) ====================
	PaymentFailed  = "PAYMENT_FAILED" // processor or network failure
	PaymentWebhook = "PAYMENT_WEBHOOK_INVALID"

	// ==================== Order (ORDER_) ====================
	OrderNotFound = "ORDER_NOT_FOUND"

	// ==================== Cart (CART_) ====================
	CartLineNotFound = "CART_LINE_NOT_FOUND"

	// ==================== Catalog (PRODUCT_, STORE_) ====================
	ProductNotFound = "PRODUCT_NOT_FOUND"
	StoreNotFound   = "STORE_NOT_FOUND" // unknown or inactive store

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	NetworkError        = "NETWORK_ERROR"
)
