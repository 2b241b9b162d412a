package web

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	item, err := s.engine.GetItem(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if item == nil {
		http.NotFound(w, r)
		return
	}

	owner, err := s.engine.OwnerOf(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toItemJSON(item, owner))
}

func (s *Server) handleGetParticipant(w http.ResponseWriter, r *http.Request) {
	addr := r.PathValue("addr")

	stats, err := s.engine.GetParticipantStats(r.Context(), addr)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if stats == nil {
		http.NotFound(w, r)
		return
	}

	rarities := make(map[string]int64, len(stats.RarityCounts))
	for rarity, count := range stats.RarityCounts {
		rarities[rarity.String()] = count
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"address":               stats.Address,
		"total_explorations":    stats.TotalExplorations,
		"total_items_found":     stats.TotalItemsFound,
		"last_exploration_time": stats.LastExplorationTime.UTC(),
		"rarity_counts":         rarities,
	})
}

func (s *Server) handleListParticipantItems(w http.ResponseWriter, r *http.Request) {
	addr := r.PathValue("addr")

	items, err := s.engine.ListItemsByOwner(r.Context(), addr)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]itemJSON, 0, len(items))
	for _, item := range items {
		out = append(out, toItemJSON(item, addr))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	minted, err := s.engine.TotalMinted(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"total_minted": minted})
}

const defaultEventLimit = 50

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			http.Error(w, "limit must be in [1,500]", http.StatusBadRequest)
			return
		}
		limit = n
	}

	events, err := s.engine.ListEvents(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	type eventJSON struct {
		ID        string          `json:"id"`
		Kind      string          `json:"kind"`
		Payload   json.RawMessage `json:"payload"`
		CreatedAt string          `json:"created_at"`
	}
	out := make([]eventJSON, 0, len(events))
	for _, ev := range events {
		out = append(out, eventJSON{
			ID:        ev.ID,
			Kind:      ev.Kind,
			Payload:   json.RawMessage(ev.Payload),
			CreatedAt: ev.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	addr := r.PathValue("addr")

	balance, err := s.engine.BalanceOf(r.Context(), addr)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"address": addr, "balance": balance})
}

// parseID extracts the {id} path variable and returns it as int64.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
