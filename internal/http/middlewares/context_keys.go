package middlewares

const (
	CtxRequestID = "request_id"

	// gin context key holding the resolved user.User
	ctxUserKey = "auth.user"
)
