package middleware

import (
	"net/http"

	"github.com/retailnet/backend/api/responses"
	"github.com/retailnet/backend/pkg/enums"
	pkgerrors "github.com/retailnet/backend/pkg/errors"
	"github.com/retailnet/backend/pkg/logger"
)

// RequireUserType gates routes to one account type. Partner endpoints only
// admit shop accounts.
func RequireUserType(userType enums.UserType, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserTypeFromContext(r.Context()) != userType {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "account type not permitted"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
