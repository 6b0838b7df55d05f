package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"rendezvous/internal/domain"
	"rendezvous/internal/realtime"
	"rendezvous/internal/usecase"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"realtime": s.d.Channel.Connected(),
	})
}

type sessionResp struct {
	Session *domain.OrderSession `json:"session"`
	Label   string               `json:"label"`
}

func (s *Server) handleStartSession(c *gin.Context) {
	var e usecase.Entry
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&e); err != nil {
			s.err(c, http.StatusBadRequest, "BadRequest", "invalid json")
			return
		}
	}
	e.Token = bearer(c.GetHeader("Authorization"))
	sess, err := s.d.Sessions.Resolve(c.Request.Context(), e)
	if err != nil {
		s.fail(c, err)
		return
	}
	// A new entry point starts a new customer at this kiosk.
	s.Close()
	s.d.Cart.Clear()
	c.JSON(http.StatusOK, sessionResp{Session: sess, Label: s.entryLabel(c, sess)})
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, ok := s.d.Sessions.Current()
	if !ok {
		s.fail(c, usecase.ErrNotFound("session"))
		return
	}
	c.JSON(http.StatusOK, sessionResp{Session: sess, Label: s.entryLabel(c, sess)})
}

func (s *Server) entryLabel(c *gin.Context, sess *domain.OrderSession) string {
	label := ""
	if sess.TableID != "" {
		label = s.d.Catalog.TableLabel(c.Request.Context(), sess.TableID)
	}
	return usecase.EntryLabel(sess.TableID, label, sess.QrType)
}

func (s *Server) handleEndSession(c *gin.Context) {
	if err := s.d.Sessions.End(); err != nil {
		s.fail(c, err)
		return
	}
	s.Close()
	s.d.Cart.Clear()
	c.Status(http.StatusNoContent)
}

type menuResp struct {
	Items  []domain.MenuItem `json:"items"`
	Tabs   []string          `json:"tabs"`
	Notice string            `json:"notice,omitempty"`
}

func (s *Server) handleMenu(c *gin.Context) {
	m := s.d.Catalog.Menu()
	notice := ""
	if len(m.Items) == 0 || c.Query("refresh") == "1" {
		// A failed load answers with the empty menu and a notice.
		loaded, err := s.d.Catalog.Load(c.Request.Context())
		if err != nil {
			notice = "Failed to load menu. Please try again."
		}
		m = loaded
	}
	menuType := c.DefaultQuery("type", usecase.AllMenuTypes)
	c.JSON(http.StatusOK, menuResp{
		Items:  m.Filter(menuType, c.DefaultQuery("category", usecase.AllCategories)),
		Tabs:   m.Tabs(menuType),
		Notice: notice,
	})
}

type cartResp struct {
	Items []domain.CartLineItem `json:"items"`
	Total decimal.Decimal       `json:"total"`
	Count int                   `json:"count"`
}

func (s *Server) cartView() cartResp {
	return cartResp{
		Items: s.d.Cart.Lines(),
		Total: s.d.Cart.Total(),
		Count: s.d.Cart.Count(),
	}
}

func (s *Server) handleGetCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.cartView())
}

type addItemResp struct {
	Line    domain.CartLineItem `json:"line"`
	Message string              `json:"message"`
	Cart    cartResp            `json:"cart"`
}

type addItemReq struct {
	ItemID string `json:"itemId"`
}

func (s *Server) handleAddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ItemID == "" {
		s.err(c, http.StatusBadRequest, "BadRequest", "itemId required")
		return
	}
	item, ok := s.d.Catalog.Menu().Find(req.ItemID)
	if !ok {
		s.fail(c, usecase.ErrNotFound("menu item"))
		return
	}
	line := s.d.Cart.Add(item)
	c.JSON(http.StatusOK, addItemResp{
		Line:    line,
		Message: line.Name + " added to cart",
		Cart:    s.cartView(),
	})
}

type updateItemReq struct {
	Delta int `json:"delta"`
}

func (s *Server) handleUpdateItem(c *gin.Context) {
	var req updateItemReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Delta == 0 {
		s.err(c, http.StatusBadRequest, "BadRequest", "non-zero delta required")
		return
	}
	s.d.Cart.UpdateQuantity(c.Param("id"), req.Delta)
	c.JSON(http.StatusOK, s.cartView())
}

func (s *Server) handleRemoveItem(c *gin.Context) {
	s.d.Cart.Remove(c.Param("id"))
	c.JSON(http.StatusOK, s.cartView())
}

func (s *Server) handleCheckout(c *gin.Context) {
	var req usecase.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.err(c, http.StatusBadRequest, "BadRequest", "invalid json")
		return
	}
	sub, err := s.d.Checkout.Confirm(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.startTracker(sub.OrderID)
	c.JSON(http.StatusCreated, sub)
}

func (s *Server) handleTracking(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		s.err(c, http.StatusBadRequest, "BadRequest", "order id required")
		return
	}
	t, err := s.tracker(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t.Snapshot())
}

// handleStopTracking is called when the tracking view goes away.
func (s *Server) handleStopTracking(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	s.mu.Lock()
	t, ok := s.trackers[id]
	delete(s.trackers, id)
	s.mu.Unlock()
	if ok {
		t.Stop()
	}
	c.Status(http.StatusNoContent)
}

type chatResp struct {
	Scope    string               `json:"scope"`
	Messages []domain.ChatMessage `json:"messages"`
}

func (s *Server) handleChatMessages(c *gin.Context) {
	room, err := s.chatRoom()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, chatResp{Scope: room.Scope().String(), Messages: room.Messages()})
}

type chatSendReq struct {
	Message string `json:"message"`
}

func (s *Server) handleChatSend(c *gin.Context) {
	var req chatSendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.err(c, http.StatusBadRequest, "BadRequest", "invalid json")
		return
	}
	room, err := s.chatRoom()
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := room.Send(req.Message); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, chatResp{Scope: room.Scope().String(), Messages: room.Messages()})
}

// tracker returns the running tracker for orderID. Only orders submitted in
// the current session can be tracked; the session's last order is picked up
// again after a restart.
func (s *Server) tracker(orderID string) (*usecase.Tracker, error) {
	s.mu.Lock()
	t, ok := s.trackers[orderID]
	s.mu.Unlock()
	if ok {
		return t, nil
	}
	sess, ok := s.d.Sessions.Current()
	if !ok || sess.LastOrderID != orderID {
		return nil, usecase.ErrNotFound("order")
	}
	return s.startTracker(orderID), nil
}

func (s *Server) startTracker(orderID string) *usecase.Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.trackers[orderID]; ok {
		return t
	}
	sessionID := ""
	if sess, ok := s.d.Sessions.Current(); ok {
		sessionID = sess.SessionID
	}
	t := usecase.NewTracker(s.d.Channel, orderID, sessionID, s.log)
	t.Start()
	s.trackers[orderID] = t
	return t
}

func (s *Server) chatRoom() (*usecase.ChatRoom, error) {
	sess, ok := s.d.Sessions.Current()
	if !ok {
		return nil, usecase.ErrNotFound("session")
	}
	scope := realtime.ScopeFor(*sess)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chat != nil && s.chat.Scope() == scope {
		return s.chat, nil
	}
	if s.chat != nil {
		s.chat.Close()
	}
	s.chat = usecase.NewChatRoom(s.d.Channel, scope, sess.CustomerName, s.log)
	s.chat.Open()
	return s.chat, nil
}

func bearer(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
