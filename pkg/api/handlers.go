package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/matzehuels/neuroc/pkg/buildinfo"
	"github.com/matzehuels/neuroc/pkg/errors"
	pkgio "github.com/matzehuels/neuroc/pkg/io"
	"github.com/matzehuels/neuroc/pkg/jitter"
	"github.com/matzehuels/neuroc/pkg/pipeline"
	"github.com/matzehuels/neuroc/pkg/render/topology"
)

// File is a morphology or annotation carried inline.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// ShrinkRequest is the body of POST /v1/shrink.
type ShrinkRequest struct {
	Morphology File      `json:"morphology"`
	Annotation string    `json:"annotation"`
	Heights    []float64 `json:"heights,omitempty"`
	NSamples   int       `json:"nsamples,omitempty"`
}

// ShrinkResponse lists one output per height.
type ShrinkResponse struct {
	Outputs []ShrinkVariant `json:"outputs"`
}

// ShrinkVariant is one height of a ShrinkResponse.
type ShrinkVariant struct {
	Height     float64 `json:"height"`
	YDiff      float64 `json:"y_diff"`
	Morphology File    `json:"morphology"`
	Annotation File    `json:"annotation"`
}

// JitterRequest is the body of POST /v1/jitter. A nil Params uses the
// default jitter laws.
type JitterRequest struct {
	Morphology File                    `json:"morphology"`
	N          int                     `json:"n"`
	Seed       uint64                  `json:"seed"`
	Params     *jitter.CloneParameters `json:"params,omitempty"`
}

// JitterResponse lists the clones in index order.
type JitterResponse struct {
	Clones []File `json:"clones"`
}

// ScaleRequest is the body of POST /v1/scale.
type ScaleRequest struct {
	Morphology File    `json:"morphology"`
	Scaling    float64 `json:"scaling"`
}

// TopologyRequest is the body of POST /v1/topology. Format is "dot" (the
// default), "svg" or "png". PNG content is base64 encoded.
type TopologyRequest struct {
	Morphology File   `json:"morphology"`
	Format     string `json:"format,omitempty"`
	Detailed   bool   `json:"detailed,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Get()})
}

func (s *Server) shrink(w http.ResponseWriter, r *http.Request) {
	var req ShrinkRequest
	if !s.decode(w, r, &req) {
		return
	}
	nSamples := req.NSamples
	if nSamples == 0 && len(req.Heights) == 0 {
		nSamples = pipeline.DefaultNSamples
	}
	outputs, err := s.runner.Shrink(r.Context(), req.Morphology.Name,
		[]byte(req.Morphology.Content), []byte(req.Annotation), req.Heights, nSamples, false)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := ShrinkResponse{Outputs: make([]ShrinkVariant, len(outputs))}
	for i, o := range outputs {
		resp.Outputs[i] = ShrinkVariant{
			Height:     o.Height,
			YDiff:      o.YDiff,
			Morphology: File{Name: o.Name, Content: string(o.Morphology)},
			Annotation: File{Name: o.AnnotationName(), Content: string(o.Annotation)},
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) jitter(w http.ResponseWriter, r *http.Request) {
	var req JitterRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts := pipeline.CloneOptions{Input: req.Morphology.Name, Output: "-", N: req.N, Seed: req.Seed}
	if req.Params != nil {
		opts.Params = *req.Params
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	if opts.N > MaxClones {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "at most %d clones per request, got %d", MaxClones, opts.N))
		return
	}

	resp := JitterResponse{Clones: make([]File, opts.N)}
	for i := range opts.N {
		data, err := s.runner.Clone(r.Context(), req.Morphology.Name, []byte(req.Morphology.Content), opts.Params, opts.Seed, i, false)
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp.Clones[i] = File{Name: jitter.CloneName(req.Morphology.Name, i), Content: string(data)}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) scale(w http.ResponseWriter, r *http.Request) {
	var req ScaleRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts := pipeline.ScaleOptions{Input: req.Morphology.Name, Output: req.Morphology.Name, Scaling: req.Scaling}
	if err := opts.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	data, err := s.runner.Scale(req.Morphology.Name, []byte(req.Morphology.Content), req.Scaling)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, File{Name: req.Morphology.Name, Content: string(data)})
}

func (s *Server) topology(w http.ResponseWriter, r *http.Request) {
	var req TopologyRequest
	if !s.decode(w, r, &req) {
		return
	}
	m, err := pkgio.Decode(req.Morphology.Name, []byte(req.Morphology.Content))
	if err != nil {
		s.writeError(w, err)
		return
	}
	dot := topology.ToDOT(m, topology.Options{Detailed: req.Detailed})
	switch req.Format {
	case "", "dot":
		writeJSON(w, http.StatusOK, File{Name: pkgio.Stem(req.Morphology.Name) + ".dot", Content: dot})
	case "svg":
		svg, err := topology.RenderSVG(r.Context(), dot)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, File{Name: pkgio.Stem(req.Morphology.Name) + ".svg", Content: string(svg)})
	case "png":
		png, err := topology.RenderPNG(r.Context(), dot)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, File{Name: pkgio.Stem(req.Morphology.Name) + ".png", Content: base64.StdEncoding.EncodeToString(png)})
	default:
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: dot, svg, png)", req.Format))
	}
}

func (r ShrinkRequest) fileName() string   { return r.Morphology.Name }
func (r JitterRequest) fileName() string   { return r.Morphology.Name }
func (r ScaleRequest) fileName() string    { return r.Morphology.Name }
func (r TopologyRequest) fileName() string { return r.Morphology.Name }

// request is a body carrying one morphology.
type request interface {
	fileName() string
}

// decode reads a JSON body into v and checks the morphology file name. It
// writes the error response and returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v request) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "decode request: %v", err))
		return false
	}
	if err := errors.ValidateFilename(v.fileName()); err != nil {
		s.writeError(w, err)
		return false
	}
	return true
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusOf maps an error code to an HTTP status.
func statusOf(code errors.Code) int {
	switch code {
	case errors.ErrCodeNoAxon, errors.ErrCodeTooManyAxons, errors.ErrCodeNoSectionToCut, errors.ErrCodeNoAxonAnnotation:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusOf(code)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
