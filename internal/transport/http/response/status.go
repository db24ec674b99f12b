package response

import (
	"errors"
	"net/http"

	"go-cms-api/internal/domain"
)

// classify 错误分类 → HTTP 状态 + 信封。
// Conflict 把已存在的记录放进 data；DatastoreFailure 不外泄底层细节。
func classify(err error) (int, Resp) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		r := New(false, ve.Msg, nil)
		if len(ve.InvalidIDs) > 0 {
			r.Meta = map[string]any{"invalidIds": ve.InvalidIDs}
		}
		return http.StatusBadRequest, r
	}
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound, New(false, nf.Error(), nil)
	}
	var ua *domain.UnauthorizedError
	if errors.As(err, &ua) {
		return http.StatusUnauthorized, New(false, ua.Msg, nil)
	}
	var fb *domain.ForbiddenError
	if errors.As(err, &fb) {
		return http.StatusForbidden, New(false, fb.Msg, nil)
	}
	var cf *domain.ConflictError
	if errors.As(err, &cf) {
		return http.StatusConflict, New(false, cf.Msg, cf.Existing)
	}
	var ds *domain.DatastoreError
	if errors.As(err, &ds) {
		return http.StatusInternalServerError, New(false, "datastore failure: "+ds.Op, nil)
	}
	return http.StatusInternalServerError, New(false, "internal error", nil)
}
