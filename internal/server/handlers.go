package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/NikBel3476/evacuation-gui-iced/internal/config"
	"github.com/NikBel3476/evacuation-gui-iced/internal/metrics"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/bim"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/camera"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/geo"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/occupants"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/scene2d"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/timeline"
)

var errBadRequest = errors.New("bad request")

type api struct {
	cfg      *config.Config
	building *bim.Building
	series   *timeline.TimeSeries
	logger   *zap.Logger
}

func (a *api) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html><head><title>evacview</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>%s</h1>
<p>%d levels, %d steps. Frames at <code>/api/frame?level=0&amp;time=0</code>.</p>
</div>
</body></html>`, html.EscapeString(a.building.NameBuilding), len(a.building.Level), len(a.series.Items))
}

func (a *api) handleHealth(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) handleBuilding(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, a.building)
}

func (a *api) handleValidation(w http.ResponseWriter, _ *http.Request) {
	report := bim.Validate(a.building)
	report.Merge(timeline.Validate(a.series))
	a.writeJSON(w, http.StatusOK, report)
}

func (a *api) handleSummary(w http.ResponseWriter, r *http.Request) {
	t, err := floatParam(r, "time", 0)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, a.series.Summarize(t))
}

func (a *api) handleFrame(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, err := a.frameRequest(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	frame, err := scene2d.Assemble(a.building, a.series, req, a.cfg.NewGenerator(metrics.RecordFallback))
	if err != nil {
		a.writeError(w, err)
		return
	}
	metrics.FramesTotal.Inc()
	metrics.OccupantsGeneratedTotal.Add(float64(len(frame.People)))
	metrics.FrameDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)

	a.writeJSON(w, http.StatusOK, frame)
}

type visibleResponse struct {
	Camera   camera.Camera         `json:"camera"`
	Elements []bim.BuildingElement `json:"elements"`
}

func (a *api) handleVisible(w http.ResponseWriter, r *http.Request) {
	level, err := a.level(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	vp, err := a.viewport(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	cam, err := cameraParam(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if cam == nil {
		fit, err := a.fit(level, vp)
		if err != nil {
			a.writeError(w, err)
			return
		}
		cam = &fit.Adjusted
	}

	elements, err := camera.VisibleElements(level, *cam, vp)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, visibleResponse{Camera: *cam, Elements: elements})
}

type fitResponse struct {
	Fit        camera.Camera `json:"fit"`
	Adjusted   camera.Camera `json:"adjusted"`
	AllVisible bool          `json:"all_visible"`
}

func (a *api) handleFit(w http.ResponseWriter, r *http.Request) {
	level, err := a.level(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	vp, err := a.viewport(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	fit, err := a.fit(level, vp)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, fit)
}

// fit returns the diagonal fit and the zoomed-out camera. When the zoom-out
// gives up, Adjusted equals Fit.
func (a *api) fit(level bim.Level, vp camera.Viewport) (fitResponse, error) {
	fit, err := camera.FitToLevel(level, vp)
	if err != nil {
		return fitResponse{}, err
	}
	adjusted, err := camera.AdjustScaleToFitAll(level, fit, vp, a.cfg.AdjustOptions())
	if errors.Is(err, camera.ErrScaleNotConverged) {
		a.logger.Warn("scale adjustment gave up", zap.String("level", level.NameLevel), zap.Error(err))
		return fitResponse{Fit: fit, Adjusted: fit}, nil
	}
	if err != nil {
		return fitResponse{}, err
	}
	return fitResponse{Fit: fit, Adjusted: adjusted, AllVisible: true}, nil
}

type hitResponse struct {
	Found   bool                 `json:"found"`
	Element *bim.BuildingElement `json:"element,omitempty"`
	Room    *scene2d.RoomInfo    `json:"room,omitempty"`
}

func (a *api) handleHit(w http.ResponseWriter, r *http.Request) {
	level, err := a.level(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	cam, err := cameraParam(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if cam == nil {
		a.writeError(w, fmt.Errorf("%w: scale is required", errBadRequest))
		return
	}
	if err := cam.Validate(); err != nil {
		a.writeError(w, err)
		return
	}
	x, err := floatParam(r, "x", 0)
	if err != nil {
		a.writeError(w, err)
		return
	}
	y, err := floatParam(r, "y", 0)
	if err != nil {
		a.writeError(w, err)
		return
	}
	t, err := floatParam(r, "time", 0)
	if err != nil {
		a.writeError(w, err)
		return
	}

	e, ok := camera.HitTest(level.BuildElement, *cam, geo.Pt(x, y))
	if !ok {
		a.writeJSON(w, http.StatusOK, hitResponse{})
		return
	}
	rooms, _ := a.series.OccupancyAtTime(t)
	info := scene2d.NewRoomInfo(e, rooms, level.ZLevel)
	a.writeJSON(w, http.StatusOK, hitResponse{
		Found:   true,
		Element: &e,
		Room:    &info,
	})
}

func (a *api) frameRequest(r *http.Request) (scene2d.FrameRequest, error) {
	idx, err := intParam(r, "level", 0)
	if err != nil {
		return scene2d.FrameRequest{}, err
	}
	t, err := floatParam(r, "time", 0)
	if err != nil {
		return scene2d.FrameRequest{}, err
	}
	vp, err := a.viewport(r)
	if err != nil {
		return scene2d.FrameRequest{}, err
	}
	cam, err := cameraParam(r)
	if err != nil {
		return scene2d.FrameRequest{}, err
	}
	return scene2d.FrameRequest{
		Level:    idx,
		Time:     t,
		Viewport: vp,
		Camera:   cam,
		Adjust:   a.cfg.AdjustOptions(),
	}, nil
}

func (a *api) level(r *http.Request) (bim.Level, error) {
	idx, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil {
		return bim.Level{}, fmt.Errorf("%w: level must be an integer", errBadRequest)
	}
	return a.building.LevelAt(idx)
}

// viewport reads width and height, defaulting to the configured size.
func (a *api) viewport(r *http.Request) (camera.Viewport, error) {
	vp := a.cfg.ViewportSize()
	var err error
	if vp.Width, err = floatParam(r, "width", vp.Width); err != nil {
		return vp, err
	}
	if vp.Height, err = floatParam(r, "height", vp.Height); err != nil {
		return vp, err
	}
	return vp, vp.Validate()
}

// cameraParam reads scale, ox and oy. It returns nil when scale is absent.
func cameraParam(r *http.Request) (*camera.Camera, error) {
	if r.URL.Query().Get("scale") == "" {
		return nil, nil
	}
	scale, err := floatParam(r, "scale", 0)
	if err != nil {
		return nil, err
	}
	ox, err := floatParam(r, "ox", 0)
	if err != nil {
		return nil, err
	}
	oy, err := floatParam(r, "oy", 0)
	if err != nil {
		return nil, err
	}
	return &camera.Camera{Offset: geo.Pt(ox, oy), Scale: scale}, nil
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a finite number", errBadRequest, name)
	}
	return v, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, name)
	}
	return v, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, bim.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, camera.ErrDegenerateCamera),
		errors.Is(err, camera.ErrInvalidViewport):
		return http.StatusBadRequest
	case errors.Is(err, camera.ErrDegenerateBoundingBox),
		errors.Is(err, occupants.ErrSamplingExhausted),
		errors.Is(err, occupants.ErrInvalidDensity),
		errors.Is(err, geo.ErrInvalidPolygon):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (a *api) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed", zap.Error(err))
	}
	a.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (a *api) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		a.logger.Error("encoding response", zap.Error(err))
		status = http.StatusInternalServerError
		data = []byte(`{"error":"encoding response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		a.logger.Debug("writing response", zap.Error(err))
	}
}
