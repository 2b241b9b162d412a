package web

import (
	"encoding/json"
	"net/http"

	"github.com/vbonduro/relicforge/internal/domain"
)

// itemJSON is the wire shape of an item.
type itemJSON struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Rarity    int    `json:"rarity"`
	RarityStr string `json:"rarity_name"`
	Type      int    `json:"type"`
	TypeStr   string `json:"type_name"`
	Power     int64  `json:"power"`
	Defense   int64  `json:"defense"`
	Magic     int64  `json:"magic"`
	CreatedAt string `json:"created_at"`
	Owner     string `json:"owner,omitempty"`
}

func toItemJSON(item *domain.Item, owner string) itemJSON {
	return itemJSON{
		ID:        item.ID,
		Name:      item.Name,
		Rarity:    int(item.Rarity),
		RarityStr: item.Rarity.String(),
		Type:      int(item.Type),
		TypeStr:   item.Type.String(),
		Power:     item.Power,
		Defense:   item.Defense,
		Magic:     item.Magic,
		CreatedAt: item.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Owner:     owner,
	}
}

func (s *Server) handleExplore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller  string `json:"caller"`
		Level   int    `json:"level"`
		Payment int64  `json:"payment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Caller == "" {
		http.Error(w, "caller is required", http.StatusBadRequest)
		return
	}

	item, err := s.engine.Explore(r.Context(), req.Caller, req.Level, req.Payment)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toItemJSON(item, req.Caller))
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller  string `json:"caller"`
		ItemID  int64  `json:"item_id"`
		To      string `json:"to"`
		Price   int64  `json:"price"`
		Payment int64  `json:"payment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Caller == "" {
		http.Error(w, "caller is required", http.StatusBadRequest)
		return
	}

	if err := s.engine.Trade(r.Context(), req.Caller, req.ItemID, req.To, req.Price, req.Payment); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"item_id": req.ItemID,
		"from":    req.Caller,
		"to":      req.To,
		"price":   req.Price,
	})
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller  string  `json:"caller"`
		ItemIDs []int64 `json:"item_ids"`
		Payment int64   `json:"payment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Caller == "" {
		http.Error(w, "caller is required", http.StatusBadRequest)
		return
	}

	item, err := s.engine.Upgrade(r.Context(), req.Caller, req.ItemIDs, req.Payment)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toItemJSON(item, req.Caller))
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To     string `json:"to"`
		Amount int64  `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.To == "" || req.Amount <= 0 {
		http.Error(w, "to and a positive amount are required", http.StatusBadRequest)
		return
	}

	if err := s.engine.Deposit(r.Context(), req.To, req.Amount); err != nil {
		s.writeError(w, err)
		return
	}

	balance, err := s.engine.BalanceOf(r.Context(), req.To)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"address": req.To, "balance": balance})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.engine.Pause()
	s.logger.Warn("engine paused")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnpause(w http.ResponseWriter, r *http.Request) {
	s.engine.Unpause()
	s.logger.Info("engine unpaused")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWithdrawFees(w http.ResponseWriter, r *http.Request) {
	amount, err := s.engine.WithdrawFees(r.Context(), s.admin)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"to": s.admin, "amount": amount})
}
