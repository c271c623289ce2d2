package webhooks

import (
	"io"
	"net/http"

	"github.com/sarthakjns/bazaario-backend/api/responses"
	rzpwebhook "github.com/sarthakjns/bazaario-backend/internal/webhooks/razorpay"
	pkgerrors "github.com/sarthakjns/bazaario-backend/pkg/errors"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
)

const (
	signatureHeader = "X-Razorpay-Signature"
	eventIDHeader   = "X-Razorpay-Event-Id"

	maxWebhookBody = 1 << 20
)

// Razorpay receives gateway webhook deliveries. The raw body is consumed
// before parsing because the signature covers the exact bytes.
func Razorpay(svc rzpwebhook.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read webhook body"))
			return
		}

		signature := r.Header.Get(signatureHeader)
		if signature == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing webhook signature"))
			return
		}

		err = svc.HandleEvent(r.Context(), body, signature, r.Header.Get(eventIDHeader))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}
