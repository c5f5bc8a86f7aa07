package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emmiamia/nourishsteps/models"
	"github.com/emmiamia/nourishsteps/services"
	"github.com/emmiamia/nourishsteps/utils"
)

// SummaryController serves the rolling windows, month calendars and day view.
// Window and calendar payloads go through the Redis cache when it is enabled.
type SummaryController struct {
	summaries *services.SummaryService
	cacheTTL  time.Duration
}

// NewSummaryController creates a new SummaryController instance.
func NewSummaryController(summaries *services.SummaryService, cacheTTL time.Duration) *SummaryController {
	return &SummaryController{summaries: summaries, cacheTTL: cacheTTL}
}

// CheckInSummary7 handles GET /api/summary7.
func (sc *SummaryController) CheckInSummary7(ctx *gin.Context) {
	key := fmt.Sprintf("%scheckins7:%s", utils.SummaryCachePrefix, sc.summaries.Today())
	var out services.CheckInWindow
	if utils.CacheGetJSON(key, &out) {
		utils.Success(ctx, out)
		return
	}
	out, err := sc.summaries.CheckInWindow(ctx.Request.Context())
	if err != nil {
		respondStoreError(ctx, err, "check-in summary")
		return
	}
	utils.CacheSetJSON(key, out, sc.cacheTTL)
	utils.Success(ctx, out)
}

// MealSummary7 handles GET /api/meals/summary7.
func (sc *SummaryController) MealSummary7(ctx *gin.Context) {
	key := fmt.Sprintf("%smeals7:%s", utils.SummaryCachePrefix, sc.summaries.Today())
	var out services.MealWindow
	if utils.CacheGetJSON(key, &out) {
		utils.Success(ctx, out)
		return
	}
	out, err := sc.summaries.MealWindow(ctx.Request.Context())
	if err != nil {
		respondStoreError(ctx, err, "meal summary")
		return
	}
	utils.CacheSetJSON(key, out, sc.cacheTTL)
	utils.Success(ctx, out)
}

// CheckInMonth handles GET /api/checkins/month?year=&month=.
func (sc *SummaryController) CheckInMonth(ctx *gin.Context) {
	year, month, ok := parseYearMonth(ctx)
	if !ok {
		return
	}
	key := fmt.Sprintf("%scheckins:month:%04d-%02d", utils.SummaryCachePrefix, year, month)
	var out services.CheckInCalendar
	if utils.CacheGetJSON(key, &out) {
		utils.Success(ctx, out)
		return
	}
	out, err := sc.summaries.CheckInMonth(ctx.Request.Context(), year, month)
	if err != nil {
		respondStoreError(ctx, err, "check-in month")
		return
	}
	utils.CacheSetJSON(key, out, sc.cacheTTL)
	utils.Success(ctx, out)
}

// MealMonth handles GET /api/meals/month?year=&month=.
func (sc *SummaryController) MealMonth(ctx *gin.Context) {
	year, month, ok := parseYearMonth(ctx)
	if !ok {
		return
	}
	key := fmt.Sprintf("%smeals:month:%04d-%02d", utils.SummaryCachePrefix, year, month)
	var out services.MealCalendar
	if utils.CacheGetJSON(key, &out) {
		utils.Success(ctx, out)
		return
	}
	out, err := sc.summaries.MealMonth(ctx.Request.Context(), year, month)
	if err != nil {
		respondStoreError(ctx, err, "meal month")
		return
	}
	utils.CacheSetJSON(key, out, sc.cacheTTL)
	utils.Success(ctx, out)
}

// Day handles GET /api/days/:date.
func (sc *SummaryController) Day(ctx *gin.Context) {
	day, err := models.ParseDay(ctx.Param("date"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeInvalidDate, models.ErrInvalidDay.Error())
		return
	}
	view, err := sc.summaries.Day(ctx.Request.Context(), day)
	if err != nil {
		respondStoreError(ctx, err, "day view")
		return
	}
	utils.Success(ctx, view)
}
