// Package fixture provides a fake notebook server with the conda dashboard and notebook
// pages, the kernelspecs api and an in-memory contents api. scenarios run against it in
// tests and with --fixture, without jupyter or conda installed.
package fixture

import (
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"log"
	"net/http"
	"path"
	"slices"
	"sort"
	"strings"
	"sync"
)

//go:embed templates
var content embed.FS

// Part is a piece of the dashboard that can be left out to simulate a ui regression.
type Part string

// removable dashboard parts.
const (
	PartCondaTab  Part = "conda_tab"
	PartEnvList   Part = "env_list"
	PartInstalled Part = "installed"
	PartAvailable Part = "available"
)

// Package is a conda package row.
type Package struct {
	Name    string
	Version string
}

// Env is a conda environment with its installed and available packages.
type Env struct {
	Name      string
	Path      string
	Installed []Package
	Available []Package
}

// KernelSpec is a kernelspec served by /api/kernelspecs.
type KernelSpec struct {
	Name        string
	DisplayName string
	Language    string
}

// Options configures the fixture.
type Options struct {
	Token       string // required as ?token= on pages and "Authorization: token" on api when set
	Envs        []Env
	KernelSpecs []KernelSpec
	Omit        []Part
}

// DefaultOptions returns a root and an r environment with python and conda-env r kernels.
func DefaultOptions() Options {
	return Options{
		Envs: []Env{
			{
				Name: "root", Path: "/opt/conda",
				Installed: []Package{{"conda", "4.3.30"}, {"notebook", "5.2.2"}, {"python", "3.6.3"}},
				Available: []Package{{"numpy", "1.13.3"}, {"pandas", "0.21.0"}},
			},
			{
				Name: "r", Path: "/opt/conda/envs/r",
				Installed: []Package{{"r-base", "3.4.1"}, {"r-irkernel", "0.8.11"}},
				Available: []Package{{"r-ggplot2", "2.2.1"}},
			},
		},
		KernelSpecs: []KernelSpec{
			{Name: "python3", DisplayName: "Python 3", Language: "python"},
			{Name: "conda-env-r-r", DisplayName: "R", Language: "R"},
			{Name: "conda-root-py", DisplayName: "Python [conda root]", Language: "python"},
		},
	}
}

// Server is the fixture http handler.
type Server struct {
	opts      Options
	templates *template.Template
	mux       *http.ServeMux

	mu        sync.Mutex
	notebooks map[string]notebook // keyed by contents path
}

// notebook is a stored contents model, only kernelspec metadata is kept.
type notebook struct {
	KernelName  string
	DisplayName string
}

// New makes a fixture server.
func New(opts Options) *Server {
	s := &Server{
		opts:      opts,
		templates: template.Must(template.ParseFS(content, "templates/*.html")),
		notebooks: make(map[string]notebook),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /tree", s.page(s.handleTree))
	mux.HandleFunc("GET /notebooks/{path...}", s.page(s.handleNotebook))
	mux.HandleFunc("GET /api/kernelspecs", s.api(s.handleKernelSpecs))
	mux.HandleFunc("GET /api/contents/{path...}", s.api(s.handleGetContents))
	mux.HandleFunc("PUT /api/contents/{path...}", s.api(s.handlePutContents))
	mux.HandleFunc("DELETE /api/contents/{path...}", s.api(s.handleDeleteContents))
	s.mux = mux
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Notebooks returns stored notebook paths, sorted.
func (s *Server) Notebooks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]string, 0, len(s.notebooks))
	for p := range s.notebooks {
		res = append(res, p)
	}
	sort.Strings(res)
	return res
}

// page wraps a page handler with ?token= auth.
func (s *Server) page(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Token != "" && r.URL.Query().Get("token") != s.opts.Token {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		h(w, r)
	}
}

// api wraps an api handler with header (or query) token auth.
func (s *Server) api(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Token != "" {
			hdr := strings.TrimPrefix(r.Header.Get("Authorization"), "token ")
			if hdr != s.opts.Token && r.URL.Query().Get("token") != s.opts.Token {
				writeJSON(w, http.StatusForbidden, map[string]string{"message": "forbidden"})
				return
			}
		}
		h(w, r)
	}
}

func (s *Server) omitted(p Part) bool {
	return slices.Contains(s.opts.Omit, p)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	target := "/tree"
	if q := r.URL.RawQuery; q != "" {
		target += "?" + q
	}
	http.Redirect(w, r, target, http.StatusFound)
}

type treeData struct {
	CondaTab  bool
	Envs      []Env
	Env       *Env
	Notebooks []string
}

func (s *Server) handleTree(w http.ResponseWriter, _ *http.Request) {
	data := treeData{CondaTab: !s.omitted(PartCondaTab), Notebooks: s.Notebooks()}
	if !s.omitted(PartEnvList) && len(s.opts.Envs) > 0 {
		data.Envs = s.opts.Envs
		env := s.opts.Envs[0]
		if s.omitted(PartInstalled) {
			env.Installed = nil
		}
		if s.omitted(PartAvailable) {
			env.Available = nil
		}
		data.Env = &env
	}
	s.render(w, "tree.html", data)
}

type notebookData struct {
	Name      string
	Path      string
	Indicator string
}

func (s *Server) handleNotebook(w http.ResponseWriter, r *http.Request) {
	p := r.PathValue("path")
	s.mu.Lock()
	nb, ok := s.notebooks[p]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	indicator := nb.DisplayName
	for _, ks := range s.opts.KernelSpecs {
		if ks.Name == nb.KernelName {
			indicator = ks.DisplayName
			break
		}
	}
	s.render(w, "notebook.html", notebookData{Name: path.Base(p), Path: p, Indicator: indicator})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("[WARN] fixture template %s: %v", name, err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (s *Server) handleKernelSpecs(w http.ResponseWriter, _ *http.Request) {
	type spec struct {
		DisplayName string `json:"display_name"`
		Language    string `json:"language"`
	}
	type entry struct {
		Name      string            `json:"name"`
		Spec      spec              `json:"spec"`
		Resources map[string]string `json:"resources"`
	}
	resp := struct {
		Default     string           `json:"default"`
		KernelSpecs map[string]entry `json:"kernelspecs"`
	}{KernelSpecs: make(map[string]entry, len(s.opts.KernelSpecs))}

	for i, ks := range s.opts.KernelSpecs {
		if i == 0 {
			resp.Default = ks.Name
		}
		resp.KernelSpecs[ks.Name] = entry{
			Name:      ks.Name,
			Spec:      spec{DisplayName: ks.DisplayName, Language: ks.Language},
			Resources: map[string]string{},
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// contentsModel is the subset of the contents api model the fixture reads and returns.
type contentsModel struct {
	Name    string `json:"name,omitempty"`
	Path    string `json:"path,omitempty"`
	Type    string `json:"type"`
	Format  string `json:"format,omitempty"`
	Content *struct {
		Metadata struct {
			KernelSpec struct {
				Name        string `json:"name"`
				DisplayName string `json:"display_name"`
			} `json:"kernelspec"`
		} `json:"metadata"`
	} `json:"content,omitempty"`
}

func (s *Server) handlePutContents(w http.ResponseWriter, r *http.Request) {
	p := r.PathValue("path")
	var m contentsModel
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&m); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad json: " + err.Error()})
		return
	}
	if m.Type != "notebook" || m.Content == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "only notebooks with content are supported"})
		return
	}

	s.mu.Lock()
	_, existed := s.notebooks[p]
	s.notebooks[p] = notebook{
		KernelName:  m.Content.Metadata.KernelSpec.Name,
		DisplayName: m.Content.Metadata.KernelSpec.DisplayName,
	}
	s.mu.Unlock()

	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	writeJSON(w, status, contentsModel{Name: path.Base(p), Path: p, Type: "notebook"})
}

func (s *Server) handleGetContents(w http.ResponseWriter, r *http.Request) {
	p := r.PathValue("path")
	s.mu.Lock()
	_, ok := s.notebooks[p]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no such file: " + p})
		return
	}
	writeJSON(w, http.StatusOK, contentsModel{Name: path.Base(p), Path: p, Type: "notebook", Format: "json"})
}

func (s *Server) handleDeleteContents(w http.ResponseWriter, r *http.Request) {
	p := r.PathValue("path")
	s.mu.Lock()
	_, ok := s.notebooks[p]
	delete(s.notebooks, p)
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no such file: " + p})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] fixture encode response: %v", err)
	}
}
