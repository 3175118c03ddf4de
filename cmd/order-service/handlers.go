package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/catalog"
	"github.com/MikeMC777/comandas/internal/httpx"
	"github.com/MikeMC777/comandas/internal/kitchen"
	"github.com/MikeMC777/comandas/internal/order"
	"github.com/MikeMC777/comandas/internal/table"
	"github.com/MikeMC777/comandas/internal/trust"
)

// openOrderHandler godoc
// @Summary      Open an order
// @Description  Opens a dine-in order over one or more free tables, or a takeaway order.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Employee-ID   header  string                  true  "Employee id"
// @Param        X-Employee-PIN  header  string                  true  "Employee PIN"
// @Param        body            body    order.OpenOrderRequest  true  "Tables or takeaway"
// @Success      201  {object}  order.OrderResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /orders [post]
func openOrderHandler(svc *order.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.OpenOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		o, err := svc.OpenOrder(c.Request.Context(), httpx.Actor(c), order.OpenInput{
			TableIDs: req.TableIDs,
			Takeaway: req.Takeaway,
		})
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, order.NewOrderResponse(*o, nil))
	}
}

// listOrdersHandler godoc
// @Summary      List active orders
// @Tags         orders
// @Produce      json
// @Param        type         query  string  false  "takeaway | dine_in"
// @Param        employee_id  query  string  false  "Opening employee"
// @Param        table        query  int     false  "Table number"
// @Param        from         query  string  false  "RFC3339, inclusive"
// @Param        to           query  string  false  "RFC3339, exclusive"
// @Param        sort         query  string  false  "asc | desc"
// @Success      200  {array}   order.OrderResponse
// @Failure      400  {object}  map[string]string
// @Router       /orders [get]
func listOrdersHandler(svc *order.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := parseListFilter(c)
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		orders, err := svc.ListActive(c.Request.Context(), f)
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		out := make([]order.OrderResponse, 0, len(orders))
		for _, o := range orders {
			out = append(out, order.NewOrderResponse(o, nil))
		}
		c.JSON(http.StatusOK, out)
	}
}

func parseListFilter(c *gin.Context) (order.ListFilter, error) {
	f := order.ListFilter{
		Type:       order.OrderType(c.Query("type")),
		EmployeeID: strings.TrimSpace(c.Query("employee_id")),
		Sort:       order.SortDirection(strings.ToLower(c.Query("sort"))),
	}
	if v := c.Query("table"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, apperr.Validation("table must be a number")
		}
		f.TableNumber = &n
	}
	for name, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
		v := c.Query(name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, apperr.Validation("%s must be an RFC3339 timestamp", name)
		}
		*dst = &t
	}
	return f, nil
}

// getOrderHandler godoc
// @Summary      Get an order with its items
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  order.OrderResponse
// @Failure      404  {object}  map[string]string
// @Router       /orders/{id} [get]
func getOrderHandler(svc *order.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, items, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, order.NewOrderResponse(*o, items))
	}
}

// addItemHandler godoc
// @Summary      Add a line item
// @Description  The dish name and price are copied into the item; later menu edits do not affect it.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Employee-ID   header  string                true  "Employee id"
// @Param        X-Employee-PIN  header  string                true  "Employee PIN"
// @Param        id              path    string                true  "Order id"
// @Param        body            body    order.AddItemRequest  true  "Dish and quantity"
// @Success      201  {object}  order.OrderResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /orders/{id}/items [post]
func addItemHandler(svc *order.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		_, o, err := svc.AddLineItem(c.Request.Context(), httpx.Actor(c), c.Param("id"), req.DishID, req.Quantity)
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		_, items, err := svc.Get(c.Request.Context(), o.ID)
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, order.NewOrderResponse(*o, items))
	}
}

// removeItemHandler godoc
// @Summary      Remove or reduce a line item
// @Description  Without quantity the whole line goes. Removing an item the kitchen already printed creates an audit record.
// @Tags         orders
// @Produce      json
// @Param        X-Employee-ID   header  string  true   "Employee id"
// @Param        X-Employee-PIN  header  string  true   "Employee PIN"
// @Param        id              path    string  true   "Order id"
// @Param        item_id         path    string  true   "Line item id"
// @Param        quantity        query   int     false  "Units to remove"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /orders/{id}/items/{item_id} [delete]
func removeItemHandler(svc *order.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		qty := 0
		if v := c.Query("quantity"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				httpx.WriteError(c, log, apperr.Validation("quantity must be a positive number"))
				return
			}
			qty = n
		}
		res, err := svc.RemoveLineItem(c.Request.Context(), httpx.Actor(c), c.Param("id"), c.Param("item_id"), qty)
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"order":   order.NewOrderResponse(*res.Order, nil),
			"audited": res.Record != nil,
			"record":  res.Record,
		})
	}
}

// closeOrderHandler godoc
// @Summary      Close an order
// @Description  Freezes the order and frees its tables.
// @Tags         orders
// @Produce      json
// @Param        X-Employee-ID   header  string  true  "Employee id"
// @Param        X-Employee-PIN  header  string  true  "Employee PIN"
// @Param        id              path    string  true  "Order id"
// @Success      200  {object}  order.OrderResponse
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /orders/{id}/close [post]
func closeOrderHandler(svc *order.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.CloseOrder(c.Request.Context(), httpx.Actor(c), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, order.NewOrderResponse(*o, nil))
	}
}

// listUnprintedHandler godoc
// @Summary      Items the kitchen has not received
// @Tags         kitchen
// @Produce      json
// @Param        id   path      string  true  "Order id"
// @Success      200  {array}   order.ItemResponse
// @Failure      404  {object}  map[string]string
// @Router       /orders/{id}/unprinted [get]
func listUnprintedHandler(tr *kitchen.Tracker, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := tr.Unprinted(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		out := make([]order.ItemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, order.NewItemResponse(it))
		}
		c.JSON(http.StatusOK, out)
	}
}

// confirmPrintedHandler godoc
// @Summary      Confirm items were printed
// @Description  Idempotent; ids already printed or not in the order are skipped.
// @Tags         kitchen
// @Accept       json
// @Produce      json
// @Param        X-Employee-ID   header  string                       true  "Employee id"
// @Param        X-Employee-PIN  header  string                       true  "Employee PIN"
// @Param        id              path    string                       true  "Order id"
// @Param        body            body    order.ConfirmPrintedRequest  true  "Printed item ids"
// @Success      200  {object}  map[string]int
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /orders/{id}/printed [post]
func confirmPrintedHandler(tr *kitchen.Tracker, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.ConfirmPrintedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		n, err := tr.ConfirmPrinted(c.Request.Context(), c.Param("id"), req.ItemIDs)
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": n})
	}
}

// dispatchTicketHandler godoc
// @Summary      Send new items to the kitchen
// @Description  Renders a ticket of the unprinted items and marks them printed once delivered.
// @Tags         kitchen
// @Produce      json
// @Param        X-Employee-ID   header  string  true  "Employee id"
// @Param        X-Employee-PIN  header  string  true  "Employee PIN"
// @Param        id              path    string  true  "Order id"
// @Success      200  {object}  kitchen.DispatchResult
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /orders/{id}/ticket [post]
func dispatchTicketHandler(d *kitchen.Dispatcher, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := d.Dispatch(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// listTablesHandler godoc
// @Summary      List tables with their state
// @Tags         tables
// @Produce      json
// @Success      200  {array}  table.Table
// @Router       /tables [get]
func listTablesHandler(reg *table.Registry, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tables, err := reg.List(c.Request.Context())
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, tables)
	}
}

// getTableHandler godoc
// @Summary      Get a table
// @Tags         tables
// @Produce      json
// @Param        id   path      string  true  "Table id"
// @Success      200  {object}  table.Table
// @Failure      404  {object}  map[string]string
// @Router       /tables/{id} [get]
func getTableHandler(reg *table.Registry, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := reg.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// listDishesHandler godoc
// @Summary      List the menu
// @Tags         dishes
// @Produce      json
// @Param        q          query  string  false  "Search name and description"
// @Param        available  query  bool    false  "Only available dishes"
// @Success      200  {array}  catalog.Dish
// @Router       /dishes [get]
func listDishesHandler(repo catalog.Repository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		dishes, err := repo.List(c.Request.Context(), catalog.Query{
			Q:             c.Query("q"),
			AvailableOnly: c.Query("available") == "true",
			Limit:         limit,
			Offset:        offset,
		})
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, dishes)
	}
}

// scorecardHandler godoc
// @Summary      Employee trust scorecard
// @Tags         trust
// @Produce      json
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  trust.Scorecard
// @Failure      400  {object}  map[string]string
// @Router       /employees/{id}/scorecard [get]
func scorecardHandler(s *trust.Scorer, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		card, err := s.Scorecard(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, card)
	}
}

// monthlyReportHandler godoc
// @Summary      Loss report for the current month
// @Tags         trust
// @Produce      json
// @Param        top  query     int  false  "Entries per ranking"
// @Success      200  {object}  trust.MonthlyReport
// @Router       /reports/monthly [get]
func monthlyReportHandler(s *trust.Scorer, defaultTop int, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		top := defaultTop
		if v := c.Query("top"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				httpx.WriteError(c, log, apperr.Validation("top must be a number"))
				return
			}
			top = n
		}
		rep, err := s.MonthlyReport(c.Request.Context(), top)
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, rep)
	}
}

// leaderboardHandler godoc
// @Summary      Employees ranked by suspicious deletions
// @Tags         trust
// @Produce      json
// @Param        limit  query    int  false  "Max entries"
// @Success      200    {array}  trust.LeaderboardEntry
// @Router       /reports/leaderboard [get]
func leaderboardHandler(s *trust.Scorer, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
		board, err := s.Leaderboard(c.Request.Context(), limit)
		if err != nil {
			httpx.WriteError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, board)
	}
}
