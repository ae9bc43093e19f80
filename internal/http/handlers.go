package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"io"

	"github.com/charmbracelet/log"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/pubsub"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/stats"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// groupFromQuery builds the ranking pool identity from query parameters.
// Omitting 'organization' selects the cross-organization pool.
func groupFromQuery(r *http.Request) (fight.Group, error) {
	wc := r.URL.Query().Get("weight_class")
	if wc == "" {
		return fight.Group{}, fmt.Errorf("'weight_class' parameter is required")
	}
	return fight.Group{
		WeightClass:  wc,
		Organization: r.URL.Query().Get("organization"),
		RankingType:  fight.RankingDivisional,
	}, nil
}

// parseDate accepts both plain dates and RFC3339 timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response to JSON", "error", err)
	}
}

func (s *Server) RankingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := groupFromQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		set, err := s.Engine.CurrentRankings(g)
		if err != nil {
			http.Error(w, "Failed to get rankings", http.StatusInternalServerError)
			log.Error("Failed to get rankings", "error", err, "group", g.Key())
			return
		}
		respondJSON(w, set)
	}
}

// RankingHistoryHandler serves the snapshot log. With 'fighter_id' and
// 'date' it resolves a single point-in-time rank; otherwise it returns
// the group's history entries within [from, to].
func (s *Server) RankingHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := groupFromQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if fighterID := r.URL.Query().Get("fighter_id"); fighterID != "" {
			dateStr := r.URL.Query().Get("date")
			if dateStr == "" {
				http.Error(w, "'date' parameter is required with 'fighter_id'", http.StatusBadRequest)
				return
			}
			date, err := parseDate(dateStr)
			if err != nil {
				http.Error(w, "Invalid 'date' parameter", http.StatusBadRequest)
				return
			}
			rank, ok, err := s.Snapshots.RankAt(fighterID, g, date)
			if err != nil {
				http.Error(w, "Failed to resolve historical rank", http.StatusInternalServerError)
				log.Error("Failed to resolve historical rank", "error", err, "fighterID", fighterID)
				return
			}
			respondJSON(w, map[string]any{
				"fighter_id": fighterID,
				"group":      g,
				"date":       date.Format("2006-01-02"),
				"rank":       rank,
				"ranked":     ok,
			})
			return
		}

		from := time.Time{}
		to := time.Now()
		if v := r.URL.Query().Get("from"); v != "" {
			if from, err = parseDate(v); err != nil {
				http.Error(w, "Invalid 'from' parameter", http.StatusBadRequest)
				return
			}
		}
		if v := r.URL.Query().Get("to"); v != "" {
			if to, err = parseDate(v); err != nil {
				http.Error(w, "Invalid 'to' parameter", http.StatusBadRequest)
				return
			}
		}

		entries, err := s.Snapshots.History(g, from, to)
		if err != nil {
			http.Error(w, "Failed to get ranking history", http.StatusInternalServerError)
			log.Error("Failed to get ranking history", "error", err, "group", g.Key())
			return
		}
		respondJSON(w, entries)
	}
}

func (s *Server) FighterStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fighterID := r.URL.Query().Get("fighter_id")
		if fighterID == "" {
			http.Error(w, "'fighter_id' parameter is required", http.StatusBadRequest)
			return
		}

		st, err := s.Stats.Get(fighterID)
		if err != nil {
			if errors.Is(err, stats.ErrNoStatistics) {
				http.Error(w, "Fighter statistics not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to get fighter statistics", http.StatusInternalServerError)
			log.Error("Failed to get fighter statistics", "error", err, "fighterID", fighterID)
			return
		}
		respondJSON(w, st)
	}
}

// CompareHandler returns the stored statistics for a set of fighters
// side by side.
func (s *Server) CompareHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idsParam := r.URL.Query().Get("fighter_ids")
		if idsParam == "" {
			http.Error(w, "'fighter_ids' parameter is required (comma-separated)", http.StatusBadRequest)
			return
		}
		ids := strings.Split(idsParam, ",")
		if len(ids) < 2 {
			http.Error(w, "At least two fighter ids are required", http.StatusBadRequest)
			return
		}

		many, err := s.Stats.GetMany(ids)
		if err != nil {
			http.Error(w, "Failed to get fighter statistics", http.StatusInternalServerError)
			log.Error("Failed to get fighter statistics", "error", err, "fighterIDs", ids)
			return
		}

		byID := make(map[string]stats.FighterStatistics, len(many))
		for _, st := range many {
			byID[st.FighterID] = st
		}
		var missing []string
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				missing = append(missing, id)
			}
		}
		respondJSON(w, map[string]any{
			"fighters": byID,
			"missing":  missing,
		})
	}
}

func (s *Server) PoundForPoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set, err := s.Engine.PoundForPound()
		if err != nil {
			http.Error(w, "Failed to get pound-for-pound rankings", http.StatusInternalServerError)
			log.Error("Failed to get pound-for-pound rankings", "error", err)
			return
		}
		respondJSON(w, set)
	}
}

func (s *Server) ChampionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set, err := s.Engine.Champions()
		if err != nil {
			http.Error(w, "Failed to get champions", http.StatusInternalServerError)
			log.Error("Failed to get champions", "error", err)
			return
		}
		respondJSON(w, set)
	}
}

// FightCommittedHandler receives Pub/Sub push messages for new bout
// records and hands them to the engine's reactive trigger path.
func (s *Server) FightCommittedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received fight committed message", "body", string(bodyBytes))
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var ev pubsub.FightCommittedEvent
		if err := s.PubSub.ProcessMessage(rawData, &ev); err != nil {
			log.Error("Failed to decode fight committed event", "error", err)
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		s.Engine.OnFightCommitted(fight.Fight{
			ID:           ev.FightID,
			FighterID:    ev.FighterID,
			OpponentID:   ev.OpponentID,
			Date:         ev.Date,
			WeightClass:  ev.WeightClass,
			Organization: ev.Organization,
		})
		w.Write([]byte("OK"))
	}
}

// IngestFightsHandler upserts reference data and bout records and
// schedules the affected groups for recomputation.
func (s *Server) IngestFightsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		isDryRun := isDryRunFromContext(r)

		var payload struct {
			Fighters []fight.Fighter `json:"fighters"`
			Fights   []fight.Fight   `json:"fights"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			log.Error("Failed to decode ingest payload", "error", err)
			return
		}

		if isDryRun {
			log.Info("[Dry Run] Would have ingested records", "fighters", len(payload.Fighters), "fights", len(payload.Fights))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "Ingest completed (dry run).")
			return
		}

		if len(payload.Fighters) > 0 {
			if err := s.Fights.UpsertFighters(payload.Fighters); err != nil {
				http.Error(w, "Failed to save fighters", http.StatusInternalServerError)
				log.Error("Failed to bulk upsert fighters", "error", err)
				return
			}
		}
		if len(payload.Fights) > 0 {
			if err := s.Fights.UpsertFights(payload.Fights); err != nil {
				http.Error(w, "Failed to save fights", http.StatusInternalServerError)
				log.Error("Failed to bulk upsert fights", "error", err)
				return
			}
			for _, f := range payload.Fights {
				s.Engine.OnFightCommitted(f)
				if err := s.PubSub.SendMessage(pubsub.EventFightCommitted, pubsub.FightCommittedEvent{
					FightID:      f.ID,
					FighterID:    f.FighterID,
					OpponentID:   f.OpponentID,
					WeightClass:  f.WeightClass,
					Organization: f.Organization,
					Date:         f.Date,
				}); err != nil {
					log.Error("Failed to publish fight committed event", "error", err, "fightID", f.ID)
				}
			}
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Ingest completed.")
		log.Info("Ingest finished.", "fighters", len(payload.Fighters), "fights", len(payload.Fights))
	}
}

// RecalculateHandler runs a full recompute for one group when
// 'weight_class' is given, or for every group otherwise.
func (s *Server) RecalculateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting ranking recompute...")
		isDryRun := isDryRunFromContext(r)

		if r.URL.Query().Get("weight_class") != "" {
			g, err := groupFromQuery(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			result, err := s.Engine.RecomputeGroup(r.Context(), g, "manual", isDryRun)
			if err != nil {
				http.Error(w, "Recompute failed", http.StatusInternalServerError)
				log.Error("Group recompute failed", "error", err, "group", g.Key())
				return
			}
			respondJSON(w, result)
			return
		}

		summary, err := s.Engine.RecomputeAll(r.Context(), "manual", isDryRun)
		if err != nil {
			http.Error(w, "Recompute failed", http.StatusInternalServerError)
			log.Error("Bulk recompute failed", "error", err)
			return
		}
		respondJSON(w, summary)
		log.Info("Ranking recompute finished.", "groups", summary.Groups, "failed", summary.Failed)
	}
}

func (s *Server) RecalculateFighterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fighterID := r.URL.Query().Get("fighter_id")
		if fighterID == "" {
			http.Error(w, "'fighter_id' parameter is required", http.StatusBadRequest)
			return
		}

		st, err := s.Engine.RecomputeFighterStats(r.Context(), fighterID)
		if err != nil {
			http.Error(w, "Failed to recompute fighter statistics", http.StatusInternalServerError)
			log.Error("Failed to recompute fighter statistics", "error", err, "fighterID", fighterID)
			return
		}
		respondJSON(w, st)
	}
}

// ChampionOverrideHandler sets the administrative champion flags on a
// fighter and recomputes the affected groups so the committed sets carry
// the new flags.
func (s *Server) ChampionOverrideHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		fighterID := r.URL.Query().Get("fighter_id")
		if fighterID == "" {
			http.Error(w, "'fighter_id' parameter is required", http.StatusBadRequest)
			return
		}
		champion := r.URL.Query().Get("champion") == "true"
		interim := r.URL.Query().Get("interim") == "true"
		isDryRun := isDryRunFromContext(r)

		f, err := s.Fights.GetFighter(fighterID)
		if err != nil {
			if errors.Is(err, fight.ErrFighterNotFound) {
				http.Error(w, "Fighter not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to get fighter", http.StatusInternalServerError)
			log.Error("Failed to get fighter", "error", err, "fighterID", fighterID)
			return
		}

		if isDryRun {
			log.Info("[Dry Run] Would have set champion flags", "fighterID", fighterID, "champion", champion, "interim", interim)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "Champion flags updated (dry run).")
			return
		}

		if err := s.Fights.SetChampionFlags(fighterID, champion, interim); err != nil {
			http.Error(w, "Failed to set champion flags", http.StatusInternalServerError)
			log.Error("Failed to set champion flags", "error", err, "fighterID", fighterID)
			return
		}
		log.Info("Champion flags updated", "fighterID", fighterID, "champion", champion, "interim", interim)

		groups := []fight.Group{
			{WeightClass: f.WeightClass, Organization: f.Organization, RankingType: fight.RankingDivisional},
			{WeightClass: f.WeightClass, RankingType: fight.RankingDivisional},
		}
		for _, g := range groups {
			if _, err := s.Engine.RecomputeGroup(r.Context(), g, "champion:"+fighterID, false); err != nil {
				http.Error(w, "Recompute failed after champion update", http.StatusInternalServerError)
				log.Error("Recompute failed after champion update", "error", err, "group", g.Key())
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Champion flags updated.")
	}
}

// FlushCacheHandler drops every cached ranking view. The remedy for a
// suspected stale read.
func (s *Server) FlushCacheHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to flush ranking cache")
		s.Cache.Flush()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Cache flushed!")
	}
}

// EngineCountersHandler serves the durable engine counters, the
// restart-surviving complement to the Prometheus endpoint.
func (s *Server) EngineCountersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.MetricsStore.GetAll()
		if err != nil {
			http.Error(w, "Failed to get engine counters", http.StatusInternalServerError)
			log.Error("Failed to get engine counters from store", "error", err)
			return
		}
		respondJSON(w, counters)
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to clear all engine state")
		s.Fights.Clear()
		s.Stats.Clear()
		s.Snapshots.Clear()
		s.MetricsStore.Clear()
		s.Cache.Flush()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
		log.Info("Store cleared successfully")
	}
}
