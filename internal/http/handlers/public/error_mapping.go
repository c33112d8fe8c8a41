package public

import (
	"errors"

	"github.com/lumishop/lumishop/internal/http/response"
	"github.com/lumishop/lumishop/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var couponErrorRules = []mappedHandlerError{
	{target: service.ErrCouponNotFound, code: response.CodeBadRequest, key: "error.coupon_not_found"},
	{target: service.ErrCouponNotOwner, code: response.CodeForbidden, key: "error.coupon_not_owner"},
	{target: service.ErrCouponUsed, code: response.CodeBadRequest, key: "error.coupon_used"},
	{target: service.ErrCouponInactive, code: response.CodeBadRequest, key: "error.coupon_inactive"},
	{target: service.ErrCouponExpired, code: response.CodeBadRequest, key: "error.coupon_expired"},
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, key: "error.coupon_type_invalid"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrProductInactive, code: response.CodeBadRequest, key: "error.product_inactive"},
	{target: service.ErrQuantityInvalid, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: service.ErrStockInsufficient, code: response.CodeBadRequest, key: "error.stock_insufficient"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, key: "error.cart_item_not_found"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrStockInsufficient, code: response.CodeBadRequest, key: "error.stock_insufficient"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrOrderNotCancelable, code: response.CodeBadRequest, key: "error.order_not_cancelable"},
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrReviewNotFound, code: response.CodeNotFound, key: "error.review_not_found"},
	{target: service.ErrReviewExists, code: response.CodeConflict, key: "error.review_exists"},
	{target: service.ErrReviewRatingInvalid, code: response.CodeBadRequest, key: "error.review_rating_invalid"},
	{target: service.ErrUnauthorized, code: response.CodeForbidden, key: "error.forbidden"},
}

var stockSubscribeErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrProductInStock, code: response.CodeBadRequest, key: "error.stock_product_in_stock"},
	{target: service.ErrSubscribeEmailInvalid, code: response.CodeBadRequest, key: "error.subscribe_email_invalid"},
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}
