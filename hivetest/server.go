// Package hivetest provides an in-process fake of a case-management service
// instance for integration testing client code without a live deployment.
// Entities are held in memory as raw JSON documents, the way the real service
// owns them, and every route the client exercises is implemented.
package hivetest

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type document = map[string]interface{}

const createdBy = "admin@hivetest.local"

// Server is a fake service instance backed by httptest.Server.
type Server struct {
	mu     sync.RWMutex
	srv    *httptest.Server
	logger *zap.Logger

	caseCounter    int
	lastMillis     int64
	cases          map[string]document
	alerts         map[string]document
	observables    map[string]document
	tasks          map[string]document
	shares         map[string]document
	attachments    map[string]document
	attachmentData map[string][]byte
	timelines      map[string][]document
}

// Option configures a Server.
type Option func(*Server)

// WithLogger makes the fake log every handled request at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer starts a fake instance. Callers own its lifecycle and must Close
// it when done.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger:         zap.NewNop(),
		cases:          map[string]document{},
		alerts:         map[string]document{},
		observables:    map[string]document{},
		tasks:          map[string]document{},
		shares:         map[string]document{},
		attachments:    map[string]document{},
		attachmentData: map[string][]byte{},
		timelines:      map[string][]document{},
	}
	for _, opt := range opts {
		opt(s)
	}

	router := httprouter.New()
	router.GET("/api/v1/status", s.status)
	router.POST("/api/v1/query", s.query)

	// Case routes use catch-all parameters so that operator segments such as
	// _bulk and _merge share the trees with entity ids.
	router.POST("/api/v1/case", s.createCase)
	router.POST("/api/v1/case/:caseID", s.casePost)
	router.POST("/api/v1/case/:caseID/:sub", s.caseSubPost)
	router.POST("/api/v1/case/:caseID/:sub/:arg", s.caseSubPostArg)
	router.GET("/api/v1/case/:caseID", s.getCase)
	router.GET("/api/v1/case/:caseID/:sub", s.caseSubGet)
	router.GET("/api/v1/case/:caseID/:sub/:id/:action", s.caseSubGetAction)
	router.PATCH("/api/v1/case/:caseID", s.updateCase)
	router.PATCH("/api/v1/case/:caseID/:sub", s.caseSubPatch)
	router.DELETE("/api/v1/case/:caseID", s.deleteCase)
	router.DELETE("/api/v1/case/:caseID/:sub", s.caseSubDelete)
	router.DELETE("/api/v1/case/:caseID/:sub/:id", s.caseSubDeleteID)

	router.POST("/api/v1/alert", s.createAlert)
	router.GET("/api/v1/alert/:alertID", s.getAlert)
	router.PATCH("/api/v1/alert/:alertID", s.updateAlert)
	router.DELETE("/api/v1/alert/:alertID", s.deleteAlert)
	router.POST("/api/v1/alert/:alertID/merge/:caseID", s.mergeAlertIntoCase)

	router.GET("/api/v1/observable/:observableID", s.getObservable)
	router.PATCH("/api/v1/observable/:observableID", s.updateObservable)
	router.DELETE("/api/v1/observable/:observableID", s.deleteObservable)

	router.GET("/api/v1/task/:taskID", s.getTask)
	router.PATCH("/api/v1/task/:taskID", s.updateTask)
	router.DELETE("/api/v1/task/:taskID", s.deleteTask)

	s.srv = httptest.NewServer(s.logging(router))
	return s
}

// URL returns the base URL of the fake instance.
func (s *Server) URL() string {
	return s.srv.URL
}

// Close shuts the fake instance down.
func (s *Server) Close() {
	s.srv.Close()
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("fake hive request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

// nextMillis returns a strictly increasing epoch-millisecond stamp so that
// records created back to back still sort deterministically by _createdAt.
func (s *Server) nextMillis() int64 {
	now := time.Now().UnixMilli()
	if now <= s.lastMillis {
		now = s.lastMillis + 1
	}
	s.lastMillis = now
	return now
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.writeJSON(w, http.StatusOK, document{"name": "hivetest", "version": "5.4.0"})
}

// POST /api/v1/case
func (s *Server) createCase(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var doc document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
		return
	}

	s.mu.Lock()
	created := s.insertCase(doc)
	s.mu.Unlock()

	s.writeJSON(w, http.StatusCreated, created)
}

// insertCase stamps service-owned fields onto doc and stores it.
// Callers must hold the write lock.
func (s *Server) insertCase(doc document) document {
	s.caseCounter++
	id := uuid.NewString()
	doc["_id"] = id
	doc["_type"] = "Case"
	doc["_createdBy"] = createdBy
	doc["_createdAt"] = s.nextMillis()
	doc["number"] = s.caseCounter
	if _, ok := doc["status"]; !ok {
		doc["status"] = "New"
	}
	if _, ok := doc["stage"]; !ok {
		doc["stage"] = "New"
	}
	s.cases[id] = doc
	s.timelines[id] = append(s.timelines[id], document{
		"date":     doc["_createdAt"],
		"kind":     "CaseCreated",
		"entityId": id,
	})
	return doc
}

// GET /api/v1/case/{id}
func (s *Server) getCase(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	s.mu.RLock()
	doc, ok := s.cases[ps.ByName("caseID")]
	s.mu.RUnlock()
	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "case not found")
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

// PATCH /api/v1/case/{id} and PATCH /api/v1/case/_bulk
func (s *Server) updateCase(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var fields document
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
		return
	}

	caseID := ps.ByName("caseID")
	if caseID == "_bulk" {
		s.bulkUpdateCase(w, fields)
		return
	}

	s.mu.Lock()
	doc, ok := s.cases[caseID]
	if ok {
		applyUpdate(doc, fields)
		doc["_updatedBy"] = createdBy
		doc["_updatedAt"] = s.nextMillis()
	}
	s.mu.Unlock()

	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "case not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) bulkUpdateCase(w http.ResponseWriter, fields document) {
	rawIDs, _ := fields["ids"].([]interface{})
	delete(fields, "ids")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rawID := range rawIDs {
		id, _ := rawID.(string)
		doc, ok := s.cases[id]
		if !ok {
			s.writeError(w, http.StatusNotFound, "NotFoundError", "case "+id+" not found")
			return
		}
		applyUpdate(doc, fields)
		doc["_updatedBy"] = createdBy
		doc["_updatedAt"] = s.nextMillis()
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/v1/case/{id}
func (s *Server) deleteCase(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	caseID := ps.ByName("caseID")

	s.mu.Lock()
	_, ok := s.cases[caseID]
	if ok {
		s.removeCase(caseID)
	}
	s.mu.Unlock()

	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "case not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// removeCase drops a case and everything hanging off it.
// Callers must hold the write lock.
func (s *Server) removeCase(caseID string) {
	delete(s.cases, caseID)
	delete(s.timelines, caseID)
	for id, doc := range s.observables {
		if doc["caseId"] == caseID {
			delete(s.observables, id)
		}
	}
	for id, doc := range s.tasks {
		if doc["caseId"] == caseID {
			delete(s.tasks, id)
		}
	}
	for id, doc := range s.shares {
		if doc["caseId"] == caseID {
			delete(s.shares, id)
		}
	}
	for id, doc := range s.attachments {
		if doc["caseId"] == caseID {
			delete(s.attachments, id)
			delete(s.attachmentData, id)
		}
	}
}

// POST /api/v1/case/{x} routes that are not entity-scoped: only the archive
// import lives at this depth.
func (s *Server) casePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("caseID") != "import" {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "unknown route")
		return
	}
	s.importCase(w, r)
}

func (s *Server) caseSubPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caseID := ps.ByName("caseID")
	sub := ps.ByName("sub")

	if caseID == "_merge" {
		s.mergeCases(w, strings.Split(sub, ","))
		return
	}

	s.mu.RLock()
	_, ok := s.cases[caseID]
	s.mu.RUnlock()
	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "case not found")
		return
	}

	switch sub {
	case "observable":
		s.createCaseObservable(w, r, caseID)
	case "task":
		s.createCaseTask(w, r, caseID)
	case "shares":
		s.createCaseShares(w, r, caseID)
	case "attachments":
		s.addCaseAttachments(w, r, caseID)
	default:
		s.writeError(w, http.StatusNotFound, "NotFoundError", "unknown route")
	}
}

func (s *Server) caseSubPostArg(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	if ps.ByName("sub") != "observable" || ps.ByName("arg") != "_merge" {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "unknown route")
		return
	}
	s.mergeSimilarObservables(w, ps.ByName("caseID"))
}

func (s *Server) caseSubGet(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caseID := ps.ByName("caseID")

	s.mu.RLock()
	_, ok := s.cases[caseID]
	s.mu.RUnlock()
	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "case not found")
		return
	}

	switch ps.ByName("sub") {
	case "links":
		s.linkedCases(w, caseID)
	case "timeline":
		s.caseTimeline(w, caseID)
	case "shares":
		s.listCaseShares(w, caseID)
	case "export":
		s.exportCase(w, caseID, r.URL.Query().Get("password"))
	default:
		s.writeError(w, http.StatusNotFound, "NotFoundError", "unknown route")
	}
}

// GET /api/v1/case/{id}/attachment/{id}/download
func (s *Server) caseSubGetAction(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	if ps.ByName("sub") != "attachment" || ps.ByName("action") != "download" {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "unknown route")
		return
	}

	attachmentID := ps.ByName("id")
	s.mu.RLock()
	doc, ok := s.attachments[attachmentID]
	data := s.attachmentData[attachmentID]
	s.mu.RUnlock()

	if !ok || doc["caseId"] != ps.ByName("caseID") {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "attachment not found")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// PATCH /api/v1/case/share/{id}
func (s *Server) caseSubPatch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("caseID") != "share" {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "unknown route")
		return
	}

	var fields document
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
		return
	}

	shareID := ps.ByName("sub")
	s.mu.Lock()
	doc, ok := s.shares[shareID]
	if ok {
		if profile, has := fields["profile"].(string); has {
			doc["profileName"] = profile
		}
	}
	s.mu.Unlock()

	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "share not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) caseSubDelete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caseID := ps.ByName("caseID")
	sub := ps.ByName("sub")

	// DELETE /api/v1/case/share/{id}
	if caseID == "share" {
		s.mu.Lock()
		_, ok := s.shares[sub]
		delete(s.shares, sub)
		s.mu.Unlock()
		if !ok {
			s.writeError(w, http.StatusNotFound, "NotFoundError", "share not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if sub != "shares" {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "unknown route")
		return
	}

	// DELETE /api/v1/case/{id}/shares revokes by organisation.
	var body struct {
		Organisations []string `json:"organisations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
		return
	}

	s.mu.Lock()
	for id, doc := range s.shares {
		if doc["caseId"] != caseID {
			continue
		}
		for _, org := range body.Organisations {
			if doc["organisationName"] == org {
				delete(s.shares, id)
			}
		}
	}
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) caseSubDeleteID(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	caseID := ps.ByName("caseID")
	id := ps.ByName("id")

	switch ps.ByName("sub") {
	case "alert":
		s.mu.Lock()
		doc, ok := s.alerts[id]
		if ok && doc["caseId"] == caseID {
			delete(doc, "caseId")
			doc["status"] = "New"
		}
		s.mu.Unlock()
		if !ok {
			s.writeError(w, http.StatusNotFound, "NotFoundError", "alert not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case "attachment":
		s.mu.Lock()
		doc, ok := s.attachments[id]
		if ok && doc["caseId"] == caseID {
			delete(s.attachments, id)
			delete(s.attachmentData, id)
		}
		s.mu.Unlock()
		if !ok {
			s.writeError(w, http.StatusNotFound, "NotFoundError", "attachment not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		s.writeError(w, http.StatusNotFound, "NotFoundError", "unknown route")
	}
}

// POST /api/v1/case/_merge/{ids}
func (s *Server) mergeCases(w http.ResponseWriter, caseIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sources := make([]document, 0, len(caseIDs))
	for _, id := range caseIDs {
		doc, ok := s.cases[id]
		if !ok {
			s.writeError(w, http.StatusNotFound, "NotFoundError", "case "+id+" not found")
			return
		}
		sources = append(sources, doc)
	}

	titles := make([]string, 0, len(sources))
	descriptions := make([]string, 0, len(sources))
	for _, doc := range sources {
		title, _ := doc["title"].(string)
		description, _ := doc["description"].(string)
		titles = append(titles, title)
		descriptions = append(descriptions, description)
	}

	merged := s.insertCase(document{
		"title":       strings.Join(titles, " / "),
		"description": strings.Join(descriptions, "\n\n"),
	})
	mergedID := merged["_id"].(string)

	// Reparent the children before the sources disappear.
	for _, id := range caseIDs {
		for _, doc := range s.observables {
			if doc["caseId"] == id {
				doc["caseId"] = mergedID
			}
		}
		for _, doc := range s.tasks {
			if doc["caseId"] == id {
				doc["caseId"] = mergedID
			}
		}
		for _, doc := range s.attachments {
			if doc["caseId"] == id {
				doc["caseId"] = mergedID
			}
		}
		s.removeCase(id)
	}

	s.writeJSON(w, http.StatusCreated, merged)
}

// POST /api/v1/case/{id}/observable
func (s *Server) createCaseObservable(w http.ResponseWriter, r *http.Request, caseID string) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		s.createFileObservable(w, r, caseID)
		return
	}

	var doc document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
		return
	}

	s.mu.Lock()
	created := s.insertObservable(doc, caseID)
	s.mu.Unlock()

	s.writeJSON(w, http.StatusCreated, []document{created})
}

func (s *Server) createFileObservable(w http.ResponseWriter, r *http.Request, caseID string) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
		return
	}

	var base document
	if raw := r.FormValue("_json"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &base); err != nil {
			s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
			return
		}
	}

	files := r.MultipartForm.File["attachment"]
	if len(files) == 0 {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", "file observable without attachment")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := []document{}
	for _, header := range files {
		attachment, data, err := readFileHeader(header)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
			return
		}

		doc := document{}
		for k, v := range base {
			doc[k] = v
		}
		observable := s.insertObservable(doc, caseID)

		attachment["_id"] = uuid.NewString()
		attachment["_createdBy"] = createdBy
		attachment["_createdAt"] = s.nextMillis()
		observable["attachment"] = attachment
		s.attachmentData[attachment["_id"].(string)] = data

		created = append(created, observable)
	}
	s.writeJSON(w, http.StatusCreated, created)
}

// insertObservable stamps service-owned fields onto doc and stores it.
// Callers must hold the write lock.
func (s *Server) insertObservable(doc document, caseID string) document {
	id := uuid.NewString()
	doc["_id"] = id
	doc["_type"] = "Observable"
	doc["_createdBy"] = createdBy
	doc["_createdAt"] = s.nextMillis()
	doc["caseId"] = caseID
	s.observables[id] = doc
	return doc
}

// POST /api/v1/case/{id}/task
func (s *Server) createCaseTask(w http.ResponseWriter, r *http.Request, caseID string) {
	var doc document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
		return
	}

	s.mu.Lock()
	id := uuid.NewString()
	doc["_id"] = id
	doc["_type"] = "Task"
	doc["_createdBy"] = createdBy
	doc["_createdAt"] = s.nextMillis()
	doc["caseId"] = caseID
	if _, ok := doc["status"]; !ok {
		doc["status"] = "Waiting"
	}
	s.tasks[id] = doc
	s.mu.Unlock()

	s.writeJSON(w, http.StatusCreated, doc)
}

// POST /api/v1/case/{id}/shares
func (s *Server) createCaseShares(w http.ResponseWriter, r *http.Request, caseID string) {
	var body struct {
		Shares []document `json:"shares"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
		return
	}

	s.mu.Lock()
	created := []document{}
	for _, input := range body.Shares {
		organisation, _ := input["organisation"].(string)
		profile, _ := input["profile"].(string)
		if profile == "" {
			profile = "analyst"
		}
		id := uuid.NewString()
		share := document{
			"_id":              id,
			"_createdBy":       createdBy,
			"_createdAt":       s.nextMillis(),
			"caseId":           caseID,
			"organisationName": organisation,
			"profileName":      profile,
		}
		s.shares[id] = share
		created = append(created, share)
	}
	s.mu.Unlock()

	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listCaseShares(w http.ResponseWriter, caseID string) {
	s.mu.RLock()
	shares := s.collect(s.shares, caseID)
	s.mu.RUnlock()
	s.writeJSON(w, http.StatusOK, shares)
}

// POST /api/v1/case/{id}/attachments
func (s *Server) addCaseAttachments(w http.ResponseWriter, r *http.Request, caseID string) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := []document{}
	for _, header := range r.MultipartForm.File["attachment"] {
		attachment, data, err := readFileHeader(header)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
			return
		}
		id := uuid.NewString()
		attachment["_id"] = id
		attachment["_createdBy"] = createdBy
		attachment["_createdAt"] = s.nextMillis()
		attachment["caseId"] = caseID
		s.attachments[id] = attachment
		s.attachmentData[id] = data
		created = append(created, attachment)
	}
	s.writeJSON(w, http.StatusCreated, created)
}

// GET /api/v1/case/{id}/links
func (s *Server) linkedCases(w http.ResponseWriter, caseID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	own := map[string]bool{}
	for _, doc := range s.observables {
		if doc["caseId"] == caseID {
			own[observableKey(doc)] = true
		}
	}

	linkedIDs := map[string]bool{}
	for _, doc := range s.observables {
		otherID, _ := doc["caseId"].(string)
		if otherID == caseID {
			continue
		}
		if own[observableKey(doc)] {
			linkedIDs[otherID] = true
		}
	}

	linked := []document{}
	for id := range linkedIDs {
		if doc, ok := s.cases[id]; ok {
			linked = append(linked, doc)
		}
	}
	sortDocuments(linked, nil)
	s.writeJSON(w, http.StatusOK, linked)
}

func observableKey(doc document) string {
	dataType, _ := doc["dataType"].(string)
	data, _ := doc["data"].(string)
	return dataType + "|" + data
}

// POST /api/v1/case/{id}/observable/_merge
func (s *Server) mergeSimilarObservables(w http.ResponseWriter, caseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cases[caseID]; !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "case not found")
		return
	}

	groups := map[string][]string{}
	for id, doc := range s.observables {
		if doc["caseId"] != caseID {
			continue
		}
		if _, isFile := doc["attachment"]; isFile {
			continue
		}
		key := observableKey(doc)
		groups[key] = append(groups[key], id)
	}

	stats := document{"deleted": 0, "untouched": 0, "updated": 0}
	for _, ids := range groups {
		if len(ids) == 1 {
			stats["untouched"] = stats["untouched"].(int) + 1
			continue
		}
		stats["updated"] = stats["updated"].(int) + 1
		stats["deleted"] = stats["deleted"].(int) + len(ids) - 1
		for _, id := range ids[1:] {
			delete(s.observables, id)
		}
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) caseTimeline(w http.ResponseWriter, caseID string) {
	s.mu.RLock()
	events := append([]document{}, s.timelines[caseID]...)
	s.mu.RUnlock()
	s.writeJSON(w, http.StatusOK, document{"events": events})
}

// GET /api/v1/case/{id}/export?password=...
func (s *Server) exportCase(w http.ResponseWriter, caseID, password string) {
	s.mu.RLock()
	archive := document{
		"format":      1,
		"password":    password,
		"case":        s.cases[caseID],
		"observables": s.collect(s.observables, caseID),
		"tasks":       s.collect(s.tasks, caseID),
	}
	data, err := json.Marshal(archive)
	s.mu.RUnlock()

	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "InternalError", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// POST /api/v1/case/import
func (s *Server) importCase(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
		return
	}

	var input struct {
		Password string `json:"password"`
	}
	if raw := r.FormValue("_json"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
			return
		}
	}

	files := r.MultipartForm.File["file"]
	if len(files) != 1 {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", "import expects a single archive")
		return
	}
	_, data, err := readFileHeader(files[0])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
		return
	}

	var archive struct {
		Password    string     `json:"password"`
		Case        document   `json:"case"`
		Observables []document `json:"observables"`
	}
	if err := json.Unmarshal(data, &archive); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", "unreadable archive")
		return
	}
	if archive.Password != input.Password {
		s.writeError(w, http.StatusBadRequest, "AuthenticationError", "wrong archive password")
		return
	}

	s.mu.Lock()
	doc := document{}
	for k, v := range archive.Case {
		if !strings.HasPrefix(k, "_") && k != "number" {
			doc[k] = v
		}
	}
	created := s.insertCase(doc)
	caseID := created["_id"].(string)
	for _, raw := range archive.Observables {
		observable := document{}
		for k, v := range raw {
			if !strings.HasPrefix(k, "_") && k != "caseId" {
				observable[k] = v
			}
		}
		s.insertObservable(observable, caseID)
	}
	s.mu.Unlock()

	s.writeJSON(w, http.StatusCreated, document{"case": created})
}

// POST /api/v1/alert
func (s *Server) createAlert(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var doc document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
		return
	}

	s.mu.Lock()
	id := uuid.NewString()
	doc["_id"] = id
	doc["_type"] = "Alert"
	doc["_createdBy"] = createdBy
	doc["_createdAt"] = s.nextMillis()
	if _, ok := doc["status"]; !ok {
		doc["status"] = "New"
	}
	if _, ok := doc["date"]; !ok {
		doc["date"] = doc["_createdAt"]
	}
	s.alerts[id] = doc
	s.mu.Unlock()

	s.writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) getAlert(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	s.mu.RLock()
	doc, ok := s.alerts[ps.ByName("alertID")]
	s.mu.RUnlock()
	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "alert not found")
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) updateAlert(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var fields document
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
		return
	}

	s.mu.Lock()
	doc, ok := s.alerts[ps.ByName("alertID")]
	if ok {
		applyUpdate(doc, fields)
		doc["_updatedAt"] = s.nextMillis()
	}
	s.mu.Unlock()

	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "alert not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteAlert(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	s.mu.Lock()
	_, ok := s.alerts[ps.ByName("alertID")]
	delete(s.alerts, ps.ByName("alertID"))
	s.mu.Unlock()
	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "alert not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/alert/{id}/merge/{caseId}
func (s *Server) mergeAlertIntoCase(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.alerts[ps.ByName("alertID")]
	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "alert not found")
		return
	}
	caseDoc, ok := s.cases[ps.ByName("caseID")]
	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "case not found")
		return
	}

	alert["caseId"] = ps.ByName("caseID")
	alert["status"] = "Imported"
	s.writeJSON(w, http.StatusCreated, caseDoc)
}

func (s *Server) getObservable(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	s.mu.RLock()
	doc, ok := s.observables[ps.ByName("observableID")]
	s.mu.RUnlock()
	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "observable not found")
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) updateObservable(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var fields document
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
		return
	}

	s.mu.Lock()
	doc, ok := s.observables[ps.ByName("observableID")]
	if ok {
		applyUpdate(doc, fields)
	}
	s.mu.Unlock()

	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "observable not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteObservable(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	s.mu.Lock()
	_, ok := s.observables[ps.ByName("observableID")]
	delete(s.observables, ps.ByName("observableID"))
	s.mu.Unlock()
	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "observable not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getTask(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	s.mu.RLock()
	doc, ok := s.tasks[ps.ByName("taskID")]
	s.mu.RUnlock()
	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "task not found")
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var fields document
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", err.Error())
		return
	}

	s.mu.Lock()
	doc, ok := s.tasks[ps.ByName("taskID")]
	if ok {
		applyUpdate(doc, fields)
	}
	s.mu.Unlock()

	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteTask(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	s.mu.Lock()
	_, ok := s.tasks[ps.ByName("taskID")]
	delete(s.tasks, ps.ByName("taskID"))
	s.mu.Unlock()
	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// collect returns the documents of a store belonging to caseID, in creation
// order. Callers must hold at least the read lock.
func (s *Server) collect(store map[string]document, caseID string) []document {
	docs := []document{}
	for _, doc := range store {
		if doc["caseId"] == caseID {
			docs = append(docs, doc)
		}
	}
	sortDocuments(docs, nil)
	return docs
}

func applyUpdate(doc, fields document) {
	for k, v := range fields {
		doc[k] = v
	}
}

func readFileHeader(header *multipart.FileHeader) (document, []byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return document{
		"name":        header.Filename,
		"size":        int64(len(data)),
		"contentType": contentType,
	}, data, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, errType, message string) {
	s.writeJSON(w, status, document{"type": errType, "message": message})
}
