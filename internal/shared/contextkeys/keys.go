package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "menu-portal context key " + string(c)
}

// RequestIDKey is the key for the per-request correlation ID in context.Context
const RequestIDKey = contextKey("requestID")

// ComponentKey names the component that is handling the current operation
const ComponentKey = contextKey("component")

// OperationKey names the operation being performed (e.g. "list_menu_items")
const OperationKey = contextKey("operation")
