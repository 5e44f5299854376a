package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/RyftEbikes/ryft-site-sub000/api/responses"
	"github.com/RyftEbikes/ryft-site-sub000/internal/datavault"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/config"
	pkgerrors "github.com/RyftEbikes/ryft-site-sub000/pkg/errors"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/logger"
)

// importBodyLimit caps snapshot uploads at 32 MiB.
const importBodyLimit = 32 << 20

// DataExport streams the full snapshot as a downloadable JSON file.
func DataExport(svc datavault.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := svc.Export(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filename := fmt.Sprintf("%s-data-%s.json", config.Brand, snapshot.ExportDate.Format(time.DateOnly))
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := json.NewEncoder(w).Encode(snapshot); err != nil && logg != nil {
			logg.Error(r.Context(), "failed to stream export", err)
		}
	}
}

func DataImport(svc datavault.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(io.LimitReader(r.Body, importBodyLimit))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read snapshot"))
			return
		}

		summary, err := svc.Import(r.Context(), raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func DataClear(svc datavault.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}
