package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emmiamia/nourishsteps/models"
	"github.com/emmiamia/nourishsteps/services"
	"github.com/emmiamia/nourishsteps/storage"
	"github.com/emmiamia/nourishsteps/utils"
)

// MealController handles meal log CRUD.
type MealController struct {
	repo  *storage.MealRepository
	clock services.Clock
}

// NewMealController creates a new MealController instance.
func NewMealController(db *gorm.DB, clock services.Clock) *MealController {
	return &MealController{repo: storage.NewMealRepository(db), clock: clock}
}

type mealInput struct {
	Date        *string `json:"date" binding:"omitempty,day"`
	MealType    *string `json:"meal_type" binding:"omitempty,oneof=breakfast lunch dinner snack"`
	Status      *string `json:"status" binding:"omitempty,oneof=planned completed partial skipped"`
	DurationSec *int    `json:"duration_sec" binding:"omitempty,min=0"`
	Note        *string `json:"note" binding:"omitempty,max=500"`
}

// Create logs a meal. Omitted fields default to breakfast, planned and today.
func (mc *MealController) Create(ctx *gin.Context) {
	var in mealInput
	if _, ok := bindJSON(ctx, &in); !ok {
		return
	}
	in.Date = blankToNil(in.Date)
	in.MealType = blankToNil(in.MealType)
	in.Status = blankToNil(in.Status)
	in.Note = blankToNil(in.Note)
	lowerPtr(in.MealType)
	lowerPtr(in.Status)
	if !validate(ctx, in) {
		return
	}

	m := models.Meal{
		Date:        mc.clock.Today(),
		MealType:    models.Breakfast,
		Status:      models.StatusPlanned,
		DurationSec: in.DurationSec,
		Note:        utils.NormalizeNotePtr(in.Note),
	}
	if in.Date != nil {
		m.Date, _ = models.ParseDay(*in.Date)
	}
	if in.MealType != nil {
		m.MealType = models.MealType(*in.MealType)
	}
	if in.Status != nil {
		m.Status = models.MealStatus(*in.Status)
	}

	if err := mc.repo.Create(ctx.Request.Context(), &m); err != nil {
		respondStoreError(ctx, err, "create meal")
		return
	}
	utils.InvalidateSummaries()
	utils.Created(ctx, m)
}

// List returns meals ordered by date then id, newest first.
func (mc *MealController) List(ctx *gin.Context) {
	filter, ok := parseListFilter(ctx)
	if !ok {
		return
	}
	items, err := mc.repo.List(ctx.Request.Context(), filter)
	if err != nil {
		respondStoreError(ctx, err, "list meals")
		return
	}
	if items == nil {
		items = []models.Meal{}
	}
	utils.Success(ctx, items)
}

func (mc *MealController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	m, err := mc.repo.Get(ctx.Request.Context(), id)
	if err != nil {
		respondStoreError(ctx, err, "get meal")
		return
	}
	utils.Success(ctx, m)
}

// Update changes only the keys present in the body. duration_sec and note
// accept null to clear them; meal_type and status must stay valid.
func (mc *MealController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var in mealInput
	keys, ok := bindJSON(ctx, &in)
	if !ok {
		return
	}
	if present(keys, "meal_type") && in.MealType == nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid meal_type")
		return
	}
	if present(keys, "status") && in.Status == nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid status")
		return
	}
	in.Date = blankToNil(in.Date)
	lowerPtr(in.MealType)
	lowerPtr(in.Status)
	if !validate(ctx, in) {
		return
	}

	m, err := mc.repo.Get(ctx.Request.Context(), id)
	if err != nil {
		respondStoreError(ctx, err, "get meal")
		return
	}
	if in.Date != nil {
		m.Date, _ = models.ParseDay(*in.Date)
	}
	if in.MealType != nil {
		m.MealType = models.MealType(*in.MealType)
	}
	if in.Status != nil {
		m.Status = models.MealStatus(*in.Status)
	}
	if present(keys, "duration_sec") {
		m.DurationSec = in.DurationSec
	}
	if present(keys, "note") {
		m.Note = utils.NormalizeNotePtr(in.Note)
	}

	if err := mc.repo.Save(ctx.Request.Context(), &m); err != nil {
		respondStoreError(ctx, err, "update meal")
		return
	}
	utils.InvalidateSummaries()
	utils.Success(ctx, m)
}

func (mc *MealController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	if err := mc.repo.Delete(ctx.Request.Context(), id); err != nil {
		respondStoreError(ctx, err, "delete meal")
		return
	}
	utils.InvalidateSummaries()
	utils.Success(ctx, gin.H{"ok": true})
}
