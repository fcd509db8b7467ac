package controller

import (
	"errors"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/inventory-console/internal/http/middleware"
	"github.com/iyhunko/inventory-console/internal/model"
	"github.com/iyhunko/inventory-console/internal/repository"
	"github.com/iyhunko/inventory-console/internal/service"
	"github.com/iyhunko/inventory-console/internal/store"
	"github.com/iyhunko/inventory-console/internal/view"
)

var columnLabels = map[view.SortField]string{
	view.SortByID:          "ID",
	view.SortByName:        "Product",
	view.SortByDescription: "Details",
	view.SortByPrice:       "Price",
	view.SortByQuantity:    "Stock",
}

// ConsoleController serves the inventory page and its form actions.
type ConsoleController struct {
	inventory *service.InventoryService
	sessions  *service.Sessions
	prefs     repository.PreferenceRepository
	now       func() time.Time
}

// NewConsoleController creates a new ConsoleController.
func NewConsoleController(inventory *service.InventoryService, sessions *service.Sessions, prefs repository.PreferenceRepository) *ConsoleController {
	return &ConsoleController{
		inventory: inventory,
		sessions:  sessions,
		prefs:     prefs,
		now:       time.Now,
	}
}

type header struct {
	Label     string
	Href      string
	Active    bool
	Direction view.Direction
}

type page struct {
	Theme        model.Theme
	Params       view.Params
	Query        template.URL
	RefreshAfter int

	Loading bool
	Message string
	Error   string

	Editing bool
	EditID  int
	Draft   model.Draft

	Count   string
	Headers []header
	Rows    []view.Row

	Prompt string
	Target view.Row
}

// Index renders the inventory page and consumes the pending success message.
func (cc *ConsoleController) Index(c *gin.Context) {
	params := viewParams(c)
	st := cc.session(c)
	c.HTML(http.StatusOK, "index", cc.page(c, st.Render(), params))
}

// Sync refreshes the product list. A session opened by this request was synced already.
func (cc *ConsoleController) Sync(c *gin.Context) {
	st, synced := cc.openSession(c)
	if !synced {
		_ = cc.inventory.Refresh(c.Request.Context(), st)
	}
	redirect(c, viewParams(c))
}

// Create submits the form as a new product.
func (cc *ConsoleController) Create(c *gin.Context) {
	var draft model.Draft
	if err := c.ShouldBind(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := cc.inventory.Create(c.Request.Context(), cc.session(c), draft); err != nil {
		slog.Debug("create rejected", slog.Any("err", err))
	}
	redirect(c, viewParams(c))
}

// Edit loads a product into the form.
func (cc *ConsoleController) Edit(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	if err := cc.inventory.BeginEdit(c.Request.Context(), cc.session(c), id); err != nil {
		slog.Debug("edit rejected", slog.Any("err", err))
	}
	redirect(c, viewParams(c))
}

// Update submits the form as the replacement of the product being edited.
func (cc *ConsoleController) Update(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	var draft model.Draft
	if err := c.ShouldBind(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := cc.inventory.Update(c.Request.Context(), cc.session(c), id, draft)
	if errors.Is(err, service.ErrNotEditing) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	redirect(c, viewParams(c))
}

// CancelEdit empties the form.
func (cc *ConsoleController) CancelEdit(c *gin.Context) {
	cc.inventory.CancelEdit(cc.session(c))
	redirect(c, viewParams(c))
}

// ConfirmDelete asks before a product is deleted.
func (cc *ConsoleController) ConfirmDelete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	params := viewParams(c)
	st := cc.session(c)
	state := st.Snapshot()

	target := model.Product{ID: id}
	for _, p := range state.Products {
		if p.ID == id {
			target = p
			break
		}
	}

	p := cc.page(c, state, params)
	p.Prompt = service.MsgConfirmDelete
	p.Target = view.Rows([]model.Product{target})[0]
	c.HTML(http.StatusOK, "confirm", p)
}

// Delete removes a product once the confirmation form was submitted.
func (cc *ConsoleController) Delete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	params := viewParams(c)
	confirmed := c.PostForm("confirm") == "yes"

	err := cc.inventory.Remove(c.Request.Context(), cc.session(c), id, confirmed)
	if errors.Is(err, service.ErrNotConfirmed) {
		c.Redirect(http.StatusSeeOther, "/products/"+strconv.Itoa(id)+"/delete?"+encode(params))
		return
	}
	redirect(c, params)
}

// ToggleTheme flips and stores the theme of the profile.
func (cc *ConsoleController) ToggleTheme(c *gin.Context) {
	ctx := c.Request.Context()
	profileID := middleware.ProfileID(c)

	theme, err := repository.ThemeOf(ctx, cc.prefs, profileID)
	if err != nil {
		slog.Error("Failed to load theme", slog.String("profile_id", profileID.String()), slog.Any("err", err))
	}
	pref := &model.Preference{ProfileID: profileID, Theme: theme.Toggle()}
	if err := cc.prefs.Save(ctx, pref); err != nil {
		slog.Error("Failed to save theme", slog.String("profile_id", profileID.String()), slog.Any("err", err))
	}
	redirect(c, viewParams(c))
}

// ExportCSV downloads the current projection.
func (cc *ConsoleController) ExportCSV(c *gin.Context) {
	state := cc.session(c).Snapshot()
	rows := view.Rows(view.Project(state.Products, viewParams(c)))

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="inventory.csv"`)
	c.Status(http.StatusOK)
	if err := view.WriteCSV(c.Writer, rows); err != nil {
		slog.Error("Failed to write CSV export", slog.Any("err", err))
	}
}

// ViewResponse is the JSON form of the page state.
type ViewResponse struct {
	Count    int           `json:"count"`
	Label    string        `json:"label"`
	Status   store.Status  `json:"status"`
	Loading  bool          `json:"loading"`
	Message  string        `json:"message,omitempty"`
	Error    string        `json:"error,omitempty"`
	EditID   *int          `json:"edit_id,omitempty"`
	Products []RowResponse `json:"products"`
}

// RowResponse is one projected product.
type RowResponse struct {
	model.Product
	PriceLabel string `json:"price_label"`
	StockLabel string `json:"stock_label"`
	LowStock   bool   `json:"low_stock"`
}

// View returns the current projection as JSON without consuming the success message.
func (cc *ConsoleController) View(c *gin.Context) {
	state := cc.session(c).Snapshot()
	rows := view.Rows(view.Project(state.Products, viewParams(c)))

	resp := ViewResponse{
		Count:    len(rows),
		Label:    view.CountLabel(len(rows)),
		Status:   state.Status,
		Loading:  state.Loading(cc.now()),
		Message:  state.Message,
		Error:    state.Error,
		EditID:   state.EditID,
		Products: make([]RowResponse, len(rows)),
	}
	for i, r := range rows {
		resp.Products[i] = RowResponse{Product: r.Product, PriceLabel: r.PriceLabel, StockLabel: r.StockLabel, LowStock: r.LowStock}
	}
	c.JSON(http.StatusOK, resp)
}

// session returns the store of the requesting profile. A new session syncs once.
func (cc *ConsoleController) session(c *gin.Context) *store.Store {
	st, _ := cc.openSession(c)
	return st
}

// openSession is session that also reports whether the store was synced by this call.
func (cc *ConsoleController) openSession(c *gin.Context) (*store.Store, bool) {
	st, created := cc.sessions.Get(middleware.ProfileID(c))
	if created {
		_ = cc.inventory.Refresh(c.Request.Context(), st)
	}
	return st, created
}

func (cc *ConsoleController) page(c *gin.Context, state store.State, params view.Params) page {
	profileID := middleware.ProfileID(c)
	theme, err := repository.ThemeOf(c.Request.Context(), cc.prefs, profileID)
	if err != nil {
		slog.Error("Failed to load theme", slog.String("profile_id", profileID.String()), slog.Any("err", err))
	}

	now := cc.now()
	rows := view.Rows(view.Project(state.Products, params))
	p := page{
		Theme:   theme,
		Params:  params,
		Query:   template.URL(encode(params)),
		Loading: state.Loading(now),
		Message: state.Message,
		Error:   state.Error,
		Editing: state.Editing(),
		Draft:   state.Draft,
		Count:   view.CountLabel(len(rows)),
		Rows:    rows,
	}
	if p.Editing {
		p.EditID = *state.EditID
	}
	if p.Loading {
		p.RefreshAfter = max(1, int(math.Ceil(state.LoadingUntil.Sub(now).Seconds())))
	}
	for _, f := range view.SortFields {
		p.Headers = append(p.Headers, header{
			Label:     columnLabels[f],
			Href:      "/?" + encode(params.Toggle(f)),
			Active:    params.Sort == f,
			Direction: params.Direction,
		})
	}
	return p
}

// viewParams reads the filter and sort of the page from the form or the query string.
func viewParams(c *gin.Context) view.Params {
	get := func(key string) string {
		if v, ok := c.GetPostForm(key); ok {
			return v
		}
		return c.Query(key)
	}
	return view.Params{
		Filter:    get("q"),
		Sort:      view.ParseSortField(get("sort")),
		Direction: view.ParseDirection(get("dir")),
	}
}

func encode(p view.Params) string {
	v := url.Values{}
	if p.Filter != "" {
		v.Set("q", p.Filter)
	}
	v.Set("sort", string(p.Sort))
	v.Set("dir", string(p.Direction))
	return v.Encode()
}

func redirect(c *gin.Context, params view.Params) {
	c.Redirect(http.StatusSeeOther, "/?"+encode(params))
}

func productID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return 0, false
	}
	return id, true
}
