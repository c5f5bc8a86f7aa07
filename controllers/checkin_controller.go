package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emmiamia/nourishsteps/models"
	"github.com/emmiamia/nourishsteps/services"
	"github.com/emmiamia/nourishsteps/storage"
	"github.com/emmiamia/nourishsteps/utils"
)

// CheckInController handles check-in CRUD.
type CheckInController struct {
	repo  *storage.CheckInRepository
	clock services.Clock
}

// NewCheckInController creates a new CheckInController instance.
func NewCheckInController(db *gorm.DB, clock services.Clock) *CheckInController {
	return &CheckInController{repo: storage.NewCheckInRepository(db), clock: clock}
}

type checkInInput struct {
	Date       *string `json:"date" binding:"omitempty,day"`
	Mood       *int    `json:"mood" binding:"omitempty,min=1,max=5"`
	Urge       *int    `json:"urge" binding:"omitempty,min=0,max=5"`
	MealStatus *string `json:"meal_status" binding:"omitempty,oneof=skipped partial completed"`
	Note       *string `json:"note" binding:"omitempty,max=500"`
}

// normalize applies the shared input rules: blank dates mean "not given",
// a missing meal status means skipped and a blank note is no note.
func (in *checkInInput) normalize() {
	in.Date = blankToNil(in.Date)
	if blankToNil(in.MealStatus) == nil {
		skipped := string(models.StatusSkipped)
		in.MealStatus = &skipped
	}
	lowerPtr(in.MealStatus)
	in.Note = blankToNil(in.Note)
}

// numbersNotNull rejects an explicit null mood or urge.
func numbersNotNull(ctx *gin.Context, keys map[string]json.RawMessage, in checkInInput) bool {
	if (present(keys, "mood") && in.Mood == nil) || (present(keys, "urge") && in.Urge == nil) {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "mood/urge must be integers")
		return false
	}
	return true
}

// Create records a check-in. Omitted fields take their defaults: mood 3,
// urge 0, meal_status skipped, date today.
func (cc *CheckInController) Create(ctx *gin.Context) {
	var in checkInInput
	keys, ok := bindJSON(ctx, &in)
	if !ok || !numbersNotNull(ctx, keys, in) {
		return
	}
	in.normalize()
	if !validate(ctx, in) {
		return
	}

	c := models.CheckIn{
		Date:       cc.clock.Today(),
		Mood:       3,
		Urge:       0,
		MealStatus: models.MealStatus(*in.MealStatus),
		Note:       utils.NormalizeNotePtr(in.Note),
	}
	if in.Date != nil {
		c.Date, _ = models.ParseDay(*in.Date)
	}
	if in.Mood != nil {
		c.Mood = *in.Mood
	}
	if in.Urge != nil {
		c.Urge = *in.Urge
	}

	if err := cc.repo.Create(ctx.Request.Context(), &c); err != nil {
		respondStoreError(ctx, err, "create check-in")
		return
	}
	utils.InvalidateSummaries()
	utils.Created(ctx, c)
}

// List returns the newest check-ins, optionally for one date.
func (cc *CheckInController) List(ctx *gin.Context) {
	filter, ok := parseListFilter(ctx)
	if !ok {
		return
	}
	items, err := cc.repo.List(ctx.Request.Context(), filter)
	if err != nil {
		respondStoreError(ctx, err, "list check-ins")
		return
	}
	if items == nil {
		items = []models.CheckIn{}
	}
	utils.Success(ctx, items)
}

func (cc *CheckInController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	c, err := cc.repo.Get(ctx.Request.Context(), id)
	if err != nil {
		respondStoreError(ctx, err, "get check-in")
		return
	}
	utils.Success(ctx, c)
}

// Update changes only the keys present in the body. A null or empty note
// clears it; a null meal_status resets it to skipped.
func (cc *CheckInController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var in checkInInput
	keys, ok := bindJSON(ctx, &in)
	if !ok || !numbersNotNull(ctx, keys, in) {
		return
	}
	hasStatus := present(keys, "meal_status")
	in.normalize()
	if !validate(ctx, in) {
		return
	}

	c, err := cc.repo.Get(ctx.Request.Context(), id)
	if err != nil {
		respondStoreError(ctx, err, "get check-in")
		return
	}
	if in.Date != nil {
		c.Date, _ = models.ParseDay(*in.Date)
	}
	if in.Mood != nil {
		c.Mood = *in.Mood
	}
	if in.Urge != nil {
		c.Urge = *in.Urge
	}
	if hasStatus {
		c.MealStatus = models.MealStatus(*in.MealStatus)
	}
	if present(keys, "note") {
		c.Note = utils.NormalizeNotePtr(in.Note)
	}

	if err := cc.repo.Save(ctx.Request.Context(), &c); err != nil {
		respondStoreError(ctx, err, "update check-in")
		return
	}
	utils.InvalidateSummaries()
	utils.Success(ctx, c)
}

func (cc *CheckInController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	if err := cc.repo.Delete(ctx.Request.Context(), id); err != nil {
		respondStoreError(ctx, err, "delete check-in")
		return
	}
	utils.InvalidateSummaries()
	utils.Success(ctx, gin.H{"ok": true})
}
