package service

import "errors"

// 订单相关错误
var (
	ErrInvalidOrderItem      = errors.New("无效的订单项")
	ErrProductNotFound       = errors.New("商品不存在")
	ErrProductInactive       = errors.New("商品已下架")
	ErrVariantNotFound       = errors.New("商品规格不存在")
	ErrCustomerNotFound      = errors.New("客户不存在")
	ErrOrderNotFound         = errors.New("订单不存在")
	ErrOrderCreateFailed     = errors.New("订单创建失败")
	ErrOrderUpdateFailed     = errors.New("订单更新失败")
	ErrOrderFetchFailed      = errors.New("订单查询失败")
	ErrOrderStatusInvalid    = errors.New("订单状态流转不合法")
	ErrOrderCancelNotAllowed = errors.New("订单当前状态不允许取消")
	ErrStockInsufficient     = errors.New("库存不足")
)

// 发货与退货相关错误
var (
	ErrShipmentNotFound       = errors.New("发货单不存在")
	ErrShipmentItemInvalid    = errors.New("发货明细不合法")
	ErrShipmentStatusInvalid  = errors.New("发货单状态流转不合法")
	ErrReturnNotFound         = errors.New("退货单不存在")
	ErrReturnItemInvalid      = errors.New("退货明细不合法")
	ErrReturnStatusInvalid    = errors.New("退货单状态流转不合法")
	ErrReturnOrderNotReturnable = errors.New("订单当前状态不支持退货")
)

// 支付相关错误
var (
	ErrPaymentNotFound      = errors.New("支付记录不存在")
	ErrPaymentAmountInvalid = errors.New("支付金额不合法")
	ErrPaymentStatusInvalid = errors.New("支付记录状态流转不合法")
	ErrPaymentExceedsTotal  = errors.New("支付金额超出订单应付总额")
)

// 认证与用户相关错误
var (
	ErrInvalidCredentials    = errors.New("用户名或密码错误")
	ErrUserNotFound          = errors.New("用户不存在")
	ErrUserDisabled          = errors.New("用户已被禁用")
	ErrEmailTaken            = errors.New("邮箱已被占用")
	ErrUsernameTaken         = errors.New("用户名已被占用")
	ErrTokenInvalid          = errors.New("无效的 token")
	ErrRefreshTokenInvalid   = errors.New("无效的刷新令牌")
	ErrRefreshTokenExpired   = errors.New("刷新令牌已过期")
	ErrTwoFactorCodeInvalid  = errors.New("两步验证码错误")
	ErrTwoFactorNotEnabled   = errors.New("未开启两步验证")
	ErrTwoFactorAlreadyOn    = errors.New("两步验证已开启")
	ErrCaptchaInvalid        = errors.New("验证码错误")
	ErrLoginRateLimited      = errors.New("登录尝试过于频繁，请稍后再试")
	ErrPasswordPolicyTooWeak = errors.New("密码强度不足")
)

// 基础资料相关错误
var (
	ErrCategoryNotFound      = errors.New("分类不存在")
	ErrCategorySlugTaken     = errors.New("分类标识已被占用")
	ErrSKUTaken              = errors.New("商品编码已被占用")
	ErrSupplierNotFound      = errors.New("供应商不存在")
	ErrWarehouseNotFound     = errors.New("仓库不存在")
	ErrWarehouseCodeTaken    = errors.New("仓库编号已被占用")
	ErrInventoryNotFound     = errors.New("库存记录不存在")
	ErrPurchaseOrderNotFound = errors.New("采购单不存在")
	ErrPurchaseStatusInvalid = errors.New("采购单状态流转不合法")
	ErrDashboardRangeInvalid = errors.New("统计时间范围不合法")
)
