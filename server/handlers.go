package server

import (
	"net/http"

	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/logger"
	"github.com/smuchow1962/conversion-table-manager/table"
	"github.com/smuchow1962/conversion-table-manager/tablefile"
	"github.com/smuchow1962/conversion-table-manager/version"
)

type tableSummary struct {
	Name      string `json:"name"`
	Base      string `json:"base"`
	Precision int    `json:"precision"`
	Units     int    `json:"units"`
}

type tableDetail struct {
	tableSummary
	Pattern  string              `json:"pattern"`
	Document *tablefile.Document `json:"document"`
}

type unitView struct {
	Key    string   `json:"key"`
	IsBase bool     `json:"is_base"`
	Scale  float64  `json:"scale"`
	Bias   float64  `json:"bias"`
	Alias  string   `json:"alias,omitempty"`
	Minor  string   `json:"minor,omitempty"`
	Term   []string `json:"term,omitempty"`
}

type parseRequest struct {
	Table string `json:"table"`
	Input string `json:"input"`
}

type convertRequest struct {
	Table string `json:"table"`
	Input string `json:"input"`
	Unit  string `json:"unit"`
}

type convertResponse struct {
	Table     string  `json:"table"`
	Input     string  `json:"input"`
	Unit      string  `json:"unit"`
	Value     float64 `json:"value"`
	Rounded   float64 `json:"rounded"`
	Precision int     `json:"precision"`
}

type batchRequest struct {
	Table  string   `json:"table"`
	Unit   string   `json:"unit"`
	Inputs []string `json:"inputs"`
}

func summarize(t *table.Table) tableSummary {
	return tableSummary{Name: t.Name(), Base: t.Base(), Precision: t.Precision(), Units: t.Len()}
}

// HandleHealth reports liveness with version info
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	info := version.Get()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": info.Version,
		"commit":  info.CommitHash,
		"tables":  len(s.registry.List()),
	})
}

// HandleListTables lists every registered table
func (s *Server) HandleListTables(w http.ResponseWriter, r *http.Request) {
	names := s.registry.List()
	out := make([]tableSummary, 0, len(names))
	for _, name := range names {
		t, err := s.registry.Get(name)
		if err != nil {
			// Unregistered since List
			continue
		}
		out = append(out, summarize(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetTable describes one table. ?format=toml|yaml returns the
// document in that encoding instead.
func (s *Server) HandleGetTable(w http.ResponseWriter, r *http.Request) {
	t, err := s.registry.Get(r.PathValue("name"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	doc := tablefile.FromTable(t)

	if name := r.URL.Query().Get("format"); name != "" && name != "json" {
		format, err := tablefile.ParseFormat(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		data, err := tablefile.Encode(doc, format)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(data)
		return
	}

	writeJSON(w, http.StatusOK, tableDetail{
		tableSummary: summarize(t),
		Pattern:      t.Pattern(),
		Document:     doc,
	})
}

// HandlePutTable registers the JSON document in the body under {name}.
// An existing table is replaced only with ?force=true.
func (s *Server) HandlePutTable(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	force := parseBool(r.URL.Query().Get("force"))

	var doc tablefile.Document
	if err := readJSON(w, r, &doc); err != nil {
		return
	}
	if doc.Name == "" {
		doc.Name = name
	}
	if doc.Name != name {
		writeError(w, http.StatusBadRequest, "document name does not match path")
		return
	}

	t, err := doc.Build()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if s.registry.Has(name) && !force {
		writeDomainError(w, errors.WithHint(
			errors.Wrapf(errors.ErrTableExists, "%q", name),
			"retry with ?force=true to replace it",
		))
		return
	}

	revision := ""
	if s.store != nil {
		stored, err := s.store.Save(r.Context(), &doc, force)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		revision = stored.Revision
	}

	if err := s.registry.RegisterTable(t, force); err != nil {
		writeDomainError(w, err)
		return
	}

	logger.FromContext(r.Context(), s.logger).Infow("Table registered over HTTP",
		logger.FieldTable, name,
		logger.FieldRevision, revision,
		logger.FieldForce, force,
	)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"table":    summarize(t),
		"revision": revision,
	})
}

// HandleDeleteTable unregisters {name} and removes it from the store
func (s *Server) HandleDeleteTable(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := s.registry.Unregister(name); err != nil {
		writeDomainError(w, err)
		return
	}
	if s.store != nil {
		if err := s.store.Delete(r.Context(), name); err != nil && !errors.Is(err, errors.ErrTableNotFound) {
			writeDomainError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleParse returns the structured form of an input
func (s *Server) HandleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	res, err := s.registry.Parse(req.Table, req.Input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleConvert converts one input
func (s *Server) HandleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	t, err := s.registry.Get(req.Table)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	got, err := s.registry.Convert(req.Table, req.Input, req.Unit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Table:     req.Table,
		Input:     req.Input,
		Unit:      got.Unit,
		Value:     got.Value,
		Rounded:   got.Round(t.Precision()),
		Precision: t.Precision(),
	})
}

// HandleConvertBatch converts many inputs to one unit. Per-input failures
// are reported in place; only a missing table fails the request.
func (s *Server) HandleConvertBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}
	if len(req.Inputs) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "too many inputs in batch")
		return
	}

	results, err := s.registry.ConvertBatch(req.Table, req.Unit, req.Inputs)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"table":   req.Table,
		"unit":    req.Unit,
		"results": results,
	})
}

// HandleFind resolves a unit key, following aliases
func (s *Server) HandleFind(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	u, err := s.registry.Find(q.Get("table"), q.Get("unit"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	view := unitView{
		Key:    u.Key,
		IsBase: u.IsBase,
		Scale:  u.Scale,
		Bias:   u.Bias,
		Alias:  u.Alias,
		Minor:  u.Minor,
	}
	if u.Term != nil {
		view.Term = []string{u.Term.Singular(), u.Term.Plural()}
	}
	writeJSON(w, http.StatusOK, view)
}
