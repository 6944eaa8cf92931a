package handlers

import (
	"strconv"
	"strings"

	"github.com/inventrack/inventrack/internal/http/response"
	"github.com/inventrack/inventrack/internal/service"

	"github.com/gin-gonic/gin"
)

var dashboardErrorRules = []mappedHandlerError{
	{target: service.ErrDashboardRangeInvalid, code: response.CodeBadRequest},
}

func dashboardQueryInput(c *gin.Context) (service.DashboardQueryInput, bool) {
	from, err := parseTimeNullable(c.Query("from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间参数不合法", err)
		return service.DashboardQueryInput{}, false
	}
	to, err := parseTimeNullable(c.Query("to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间参数不合法", err)
		return service.DashboardQueryInput{}, false
	}

	return service.DashboardQueryInput{
		Range:        strings.TrimSpace(c.Query("range")),
		From:         from,
		To:           to,
		Timezone:     strings.TrimSpace(c.Query("timezone")),
		ForceRefresh: c.Query("force_refresh") == "true",
	}, true
}

// DashboardOverview 经营总览
func (h *Handler) DashboardOverview(c *gin.Context) {
	input, ok := dashboardQueryInput(c)
	if !ok {
		return
	}
	overview, err := h.DashboardService.GetOverview(c.Request.Context(), input)
	if err != nil {
		respondWithMappedError(c, err, dashboardErrorRules, response.CodeInternal, "查询经营总览失败")
		return
	}
	response.Success(c, overview)
}

// DashboardTrends 按日趋势
func (h *Handler) DashboardTrends(c *gin.Context) {
	input, ok := dashboardQueryInput(c)
	if !ok {
		return
	}
	trends, err := h.DashboardService.GetTrends(c.Request.Context(), input)
	if err != nil {
		respondWithMappedError(c, err, dashboardErrorRules, response.CodeInternal, "查询趋势数据失败")
		return
	}
	response.Success(c, trends)
}

// DashboardRankings 热销商品与客户排行
func (h *Handler) DashboardRankings(c *gin.Context) {
	input, ok := dashboardQueryInput(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	rankings, err := h.DashboardService.GetRankings(c.Request.Context(), input, limit)
	if err != nil {
		respondWithMappedError(c, err, dashboardErrorRules, response.CodeInternal, "查询排行数据失败")
		return
	}
	response.Success(c, rankings)
}
