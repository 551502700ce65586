package adaptor

import (
	"errors"
	"net/http"

	"cinema-reserve/internal/data/entity"
	"cinema-reserve/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps the service error taxonomy onto HTTP. Seat conflicts
// carry the offending seat list, price mismatches carry the authoritative
// total, so the client can recover without a second round trip.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		notFound     *entity.NotFoundError
		validation   *entity.ValidationError
		conflict     *entity.ConflictError
		seatConflict *entity.SeatConflictError
		mismatch     *entity.PriceMismatchError
		unavailable  *entity.MethodUnavailableError
	)

	switch {
	case errors.As(err, &notFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.As(err, &validation):
		log.Warn(operation+" failed - validation", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.As(err, &seatConflict):
		log.Warn(operation+" failed - seats taken",
			zap.Error(err),
			zap.Strings("seats", seatConflict.Seats))
		utils.ResponseConflict(w, err.Error(), map[string]any{"seats": seatConflict.Seats})

	case errors.As(err, &conflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.As(err, &mismatch):
		log.Warn(operation+" failed - price mismatch",
			zap.Error(err),
			zap.Int64("expected_total", mismatch.Expected))
		utils.ResponseUnprocessable(w, err.Error(), map[string]any{"expected_total": mismatch.Expected})

	case errors.As(err, &unavailable):
		log.Warn(operation+" failed - payment method disabled", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error(), nil)

	case errors.Is(err, entity.ErrGatewayUnknown):
		log.Error(operation+" failed - gateway unreachable", zap.Error(err))
		utils.ResponseBadGateway(w, "payment gateway unavailable")

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
