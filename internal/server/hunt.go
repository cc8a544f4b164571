// Package server exposes the hunt tracker core over a JSON HTTP API. It is
// glue: every handler decodes, calls the service and renders tables.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"hunt-tracker/internal/constants"
	"hunt-tracker/internal/domain"
	"hunt-tracker/internal/service"
)

type HuntServer struct {
	svc    *service.HuntService
	logger zerolog.Logger
}

func NewHuntServer(svc *service.HuntService, logger zerolog.Logger) *HuntServer {
	return &HuntServer{svc: svc, logger: logger}
}

func (s *HuntServer) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Post("/uploads", s.handleUpload)
		r.Get("/hunts", s.handleHunts)
		r.Patch("/hunts", s.handleEdit)
		r.Delete("/hunts", s.handleDelete)
		r.Get("/zones", s.handleZones)
		r.Get("/zones/export.csv", s.handleZonesCSV)
		r.Get("/zones/{zone}/monsters", s.handleZoneMonsters)
		r.Get("/stats", s.handleStats)
		r.Get("/backup", s.handleBackupExport)
		r.Post("/backup", s.handleBackupImport)
		r.Get("/debug/dedupe", s.handleDedupe)
	})
	return r
}

// ---- uploads ----

type uploadResponse struct {
	BatchID    string   `json:"batch_id"`
	Added      int      `json:"added"`
	Duplicates int      `json:"duplicates"`
	Failures   int      `json:"failures"`
	Logs       []string `json:"logs,omitempty"`
}

// handleUpload accepts either multipart form files under "files" or a single
// raw JSON payload as the request body.
func (s *HuntServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.UploadMaxBytes)

	payloads, err := readPayloads(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if len(payloads) == 0 {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("no payloads supplied"))
		return
	}

	report, err := s.svc.Upload(payloads)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, uploadResponse{
		BatchID:    report.BatchID,
		Added:      report.Added,
		Duplicates: report.Duplicates,
		Failures:   report.Failures,
		Logs:       report.Logs,
	})
}

func readPayloads(r *http.Request) ([][]byte, error) {
	if err := r.ParseMultipartForm(constants.UploadMaxBytes); err == nil && r.MultipartForm != nil {
		var payloads [][]byte
		for _, headers := range r.MultipartForm.File {
			for _, hdr := range headers {
				f, err := hdr.Open()
				if err != nil {
					return nil, fmt.Errorf("failed to open upload %q: %w", hdr.Filename, err)
				}
				data, err := io.ReadAll(f)
				f.Close()
				if err != nil {
					return nil, fmt.Errorf("failed to read upload %q: %w", hdr.Filename, err)
				}
				payloads = append(payloads, data)
			}
		}
		return payloads, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return [][]byte{data}, nil
}

// ---- hunt tables ----

type huntRow struct {
	Path           string             `json:"path"`
	SessionStart   string             `json:"session_start"`
	SessionEnd     string             `json:"session_end"`
	DurationSec    int                `json:"duration_sec"`
	XPGain         int                `json:"xp_gain"`
	RawXPGain      int                `json:"raw_xp_gain"`
	Supplies       int                `json:"supplies"`
	Loot           int                `json:"loot"`
	Balance        int                `json:"balance"`
	Vocation       string             `json:"vocation"`
	Mode           string             `json:"mode"`
	VocationDuo    string             `json:"vocation_duo"`
	Zone           string             `json:"zone"`
	LevelBucket    string             `json:"level_bucket"`
	LevelMin       int                `json:"level_min"`
	LevelMax       int                `json:"level_max"`
	HasAllMeta     bool               `json:"has_all_meta"`
	KillsByMonster map[string]float64 `json:"kills_by_monster"`
}

func toHuntRow(r domain.HuntRow) huntRow {
	return huntRow{
		Path:           r.Path,
		SessionStart:   r.SessionStart,
		SessionEnd:     r.SessionEnd,
		DurationSec:    r.DurationSec,
		XPGain:         r.XPGain,
		RawXPGain:      r.RawXPGain,
		Supplies:       r.Supplies,
		Loot:           r.Loot,
		Balance:        r.Balance,
		Vocation:       r.Vocation,
		Mode:           r.Mode,
		VocationDuo:    r.VocationDuo,
		Zone:           r.Zone,
		LevelBucket:    r.LevelBucket,
		LevelMin:       r.LevelMin,
		LevelMax:       r.LevelMax,
		HasAllMeta:     r.HasAllMeta,
		KillsByMonster: r.KillsByMonster,
	}
}

func (s *HuntServer) handleHunts(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Tables()
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	partition := r.URL.Query().Get("partition")
	var rows []domain.HuntRow
	switch partition {
	case "", "processed":
		rows = res.Processed
	case "pending":
		rows = res.Pending
	default:
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("unknown partition %q", partition))
		return
	}

	out := make([]huntRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, toHuntRow(row))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"hunts": out})
}

// ---- edit / delete ----

type rowKeyPayload struct {
	SessionStart string `json:"session_start"`
	SessionEnd   string `json:"session_end"`
	XPGain       int    `json:"xp_gain"`
}

func (k rowKeyPayload) key() domain.RowKey {
	return domain.RowKey{SessionStart: k.SessionStart, SessionEnd: k.SessionEnd, XPGain: k.XPGain}
}

type editRequest struct {
	Key          rowKeyPayload `json:"key"`
	Vocation     string        `json:"vocation"`
	Mode         string        `json:"mode"`
	Zone         string        `json:"zone"`
	Level        string        `json:"level"`
	DuoVocation  string        `json:"duo_vocation,omitempty"`
	PartyMembers []string      `json:"party_members,omitempty"`
	TransferText *string       `json:"transfer_text,omitempty"`
	BalanceReal  *int          `json:"balance_real,omitempty"`
}

func (s *HuntServer) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid edit request: %w", err))
		return
	}

	found, err := s.svc.EditMetadata(req.Key.key(), service.EditPatch{
		Vocation:     req.Vocation,
		Mode:         req.Mode,
		Zone:         req.Zone,
		Level:        req.Level,
		DuoVocation:  req.DuoVocation,
		PartyMembers: req.PartyMembers,
		TransferText: req.TransferText,
		BalanceReal:  req.BalanceReal,
	})
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if !found {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("no hunt matches key"))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"updated": true})
}

func (s *HuntServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req rowKeyPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid delete request: %w", err))
		return
	}

	found, err := s.svc.DeleteHunt(req.key())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if !found {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("no hunt matches key"))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// ---- zone tables ----

type zoneRow struct {
	Zone             string  `json:"zone"`
	Hunts            int     `json:"hunts"`
	HoursTotal       float64 `json:"hours_total"`
	XPGainPerHour    float64 `json:"xp_gain_per_hour"`
	RawXPGainPerHour float64 `json:"raw_xp_gain_per_hour"`
	SuppliesPerHour  float64 `json:"supplies_per_hour"`
	LootPerHour      float64 `json:"loot_per_hour"`
	BalancePerHour   float64 `json:"balance_per_hour"`
}

func filterFromQuery(r *http.Request) service.Filter {
	q := r.URL.Query()
	return service.Filter{
		Vocation:    q.Get("vocation"),
		Mode:        q.Get("mode"),
		LevelBucket: q.Get("level"),
	}
}

func (s *HuntServer) handleZones(w http.ResponseWriter, r *http.Request) {
	table, err := s.svc.ZoneTable(filterFromQuery(r))
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	out := make([]zoneRow, 0, len(table))
	for _, z := range table {
		out = append(out, zoneRow{
			Zone:             z.Zone,
			Hunts:            z.Hunts,
			HoursTotal:       z.HoursTotal,
			XPGainPerHour:    z.XPGainPerHour,
			RawXPGainPerHour: z.RawXPGainPerHour,
			SuppliesPerHour:  z.SuppliesPerHour,
			LootPerHour:      z.LootPerHour,
			BalancePerHour:   z.BalancePerHour,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"zones": out})
}

func (s *HuntServer) handleZonesCSV(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.ZoneTableCSV(filterFromQuery(r))
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="zones_aggregated.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ---- zone monsters ----

type monsterRow struct {
	Monster       string   `json:"monster"`
	Difficulty    string   `json:"difficulty,omitempty"`
	RequiredKills int      `json:"required_kills,omitempty"`
	CurrentKills  int      `json:"current_kills"`
	KPH           float64  `json:"kph"`
	ETAHours      *float64 `json:"eta_hours"`
}

func (s *HuntServer) handleZoneMonsters(w http.ResponseWriter, r *http.Request) {
	zone := chi.URLParam(r, "zone")
	estimates, err := s.svc.ZoneMonsters(zone, filterFromQuery(r))
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	out := make([]monsterRow, 0, len(estimates))
	for _, e := range estimates {
		out = append(out, monsterRow{
			Monster:       e.Monster,
			Difficulty:    e.Difficulty,
			RequiredKills: e.RequiredKills,
			CurrentKills:  e.CurrentKills,
			KPH:           e.KPH,
			ETAHours:      e.ETAHours,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"zone": zone, "monsters": out})
}

// ---- stats ----

type breakdownRow struct {
	Key   string  `json:"key"`
	Hunts int     `json:"hunts"`
	Hours float64 `json:"hours"`
	Zones int     `json:"zones"`
}

func (s *HuntServer) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats()
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	toRows := func(in []service.Breakdown) []breakdownRow {
		out := make([]breakdownRow, 0, len(in))
		for _, b := range in {
			out = append(out, breakdownRow{Key: b.Key, Hunts: b.Hunts, Hours: b.Hours, Zones: b.Zones})
		}
		return out
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"total_hunts": stats.TotalHunts,
		"total_hours": stats.TotalHours,
		"pending":     stats.Pending,
		"by_vocation": toRows(stats.ByVocation),
		"by_mode":     toRows(stats.ByMode),
		"by_level":    toRows(stats.ByLevel),
	})
}

// ---- backup ----

func (s *HuntServer) handleBackupExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.ExportBackup()
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="hunt_tracker_backup.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *HuntServer) handleBackupImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.UploadMaxBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err))
		return
	}

	mode := r.URL.Query().Get("mode")
	switch mode {
	case "", "full":
		err = s.svc.ImportBackup(data, false)
	case "keep-pending":
		err = s.svc.ImportBackup(data, true)
	default:
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("unknown import mode %q", mode))
		return
	}
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"restored": true, "mode": modeOrFull(mode)})
}

func modeOrFull(mode string) string {
	if mode == "" {
		return "full"
	}
	return mode
}

// ---- dedupe debug ----

func (s *HuntServer) handleDedupe(w http.ResponseWriter, r *http.Request) {
	info, err := s.svc.Dedupe()
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"store_rows":  info.StoreRows,
		"ledger_size": info.LedgerSize,
		"processed":   info.Processed,
		"pending":     info.Pending,
	})
}

// ---- helpers ----

func (s *HuntServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *HuntServer) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else {
		logger.Warn().Err(err).Str("path", r.URL.Path).Msg("request rejected")
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
