package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ledgerdesk/backoffice-backend/internal/application/statement"
	"github.com/ledgerdesk/backoffice-backend/internal/infrastructure/storage"
)

// ownerID pulls the owner scope from the query string (or form for
// uploads). A missing or malformed value fails the request.
func ownerID(c *gin.Context) (int64, bool) {
	raw := c.Query("owner_id")
	if raw == "" {
		raw = c.PostForm("owner_id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, APIError{Code: CodeBadRequest, Message: "owner_id is required"})
		return 0, false
	}
	return id, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, APIError{Code: CodeBadRequest, Message: "invalid id"})
		return 0, false
	}
	return id, true
}

func (s *Server) internalError(c *gin.Context, msg string, err error) {
	s.logger.Error(msg, "error", err)
	c.JSON(http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: msg})
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, APIError{Code: CodeNotFound, Message: msg})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) uploadStatement(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, APIError{Code: CodeBadRequest, Message: "file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		s.internalError(c, "failed to read upload", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		s.internalError(c, "failed to read upload", err)
		return
	}

	stmt, err := s.statements.Upload(c.Request.Context(), owner,
		c.PostForm("statement_type"), fileHeader.Filename, data)
	if errors.Is(err, statement.ErrInvalidStatementType) {
		c.JSON(http.StatusUnprocessableEntity, APIError{Code: CodeValidationError, Message: err.Error()})
		return
	}
	if err != nil {
		s.internalError(c, "failed to accept statement", err)
		return
	}

	c.JSON(http.StatusAccepted, UploadResponse{
		ID:            stmt.ID,
		StatementType: stmt.StatementType,
		FileName:      stmt.FileName,
		Status:        "processing",
	})
}

func (s *Server) listStatements(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	statements, err := s.statements.List(owner)
	if err != nil {
		s.internalError(c, "failed to list statements", err)
		return
	}
	if statements == nil {
		statements = []*storage.Statement{}
	}
	c.JSON(http.StatusOK, statements)
}

func (s *Server) getStatement(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	stmt, err := s.statements.Get(owner, id)
	if err != nil {
		s.internalError(c, "failed to fetch statement", err)
		return
	}
	if stmt == nil {
		notFound(c, "statement not found")
		return
	}
	c.JSON(http.StatusOK, stmt)
}

func (s *Server) listStatementItems(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	stmt, err := s.statements.Get(owner, id)
	if err != nil {
		s.internalError(c, "failed to fetch statement", err)
		return
	}
	if stmt == nil {
		notFound(c, "statement not found")
		return
	}
	items, err := s.statements.Items(owner, id)
	if err != nil {
		s.internalError(c, "failed to list items", err)
		return
	}
	if items == nil {
		items = []*storage.StatementItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) deleteStatement(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.statements.Delete(c.Request.Context(), owner, id); err != nil {
		s.internalError(c, "failed to delete statement", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) triggerReconcile(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	stmt, err := s.statements.Get(owner, id)
	if err != nil {
		s.internalError(c, "failed to fetch statement", err)
		return
	}
	if stmt == nil {
		notFound(c, "statement not found")
		return
	}
	s.statements.EnqueueReconcile(owner, id)
	c.JSON(http.StatusAccepted, ReconcileAccepted{StatementID: id, Status: "queued"})
}

// editItem updates the raw fields of a line item. The match fields are
// not editable; a later reconciliation run recomputes them.
func (s *Server) editItem(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req ItemEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Code: CodeBadRequest, Message: "invalid request body"})
		return
	}

	item, err := s.ownedItem(c, owner, id)
	if err != nil || item == nil {
		return
	}

	if req.TransactionDate != nil {
		item.TransactionDate = *req.TransactionDate
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.TransactionType != nil {
		item.TransactionType = *req.TransactionType
	}
	if req.Amount != nil {
		item.Amount = *req.Amount
	}
	if req.Balance != nil {
		item.Balance = *req.Balance
	}

	if err := s.repo.UpdateItem(item); err != nil {
		s.internalError(c, "failed to update item", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) deleteItem(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := s.ownedItem(c, owner, id)
	if err != nil || item == nil {
		return
	}
	if err := s.repo.DeleteItem(id); err != nil {
		s.internalError(c, "failed to delete item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ownedItem loads an item and checks it belongs to one of the owner's
// statements. On any failure the response has already been written and
// (nil, err-or-nil) is returned.
func (s *Server) ownedItem(c *gin.Context, owner, itemID int64) (*storage.StatementItem, error) {
	item, err := s.repo.GetItem(itemID)
	if err != nil {
		s.internalError(c, "failed to fetch item", err)
		return nil, err
	}
	if item == nil {
		notFound(c, "item not found")
		return nil, nil
	}
	stmt, err := s.repo.GetStatement(item.StatementID)
	if err != nil {
		s.internalError(c, "failed to fetch statement", err)
		return nil, err
	}
	if stmt == nil || stmt.OwnerID != owner {
		notFound(c, "item not found")
		return nil, nil
	}
	return item, nil
}

func (s *Server) listRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := s.repo.ListRuns(limit)
	if err != nil {
		s.internalError(c, "failed to list runs", err)
		return
	}
	if runs == nil {
		runs = []storage.ReconcileRun{}
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) getRun(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	run, err := s.repo.GetRun(id)
	if err != nil {
		s.internalError(c, "failed to fetch run", err)
		return
	}
	if run == nil {
		notFound(c, "run not found")
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) analytics(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	summary, err := s.statements.Analytics(owner)
	if err != nil {
		s.internalError(c, "failed to compute analytics", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) createInvoice(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req InvoiceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Code: CodeBadRequest, Message: "invalid request body"})
		return
	}
	if req.Type != "expense" && req.Type != "sales" {
		c.JSON(http.StatusUnprocessableEntity, APIError{
			Code: CodeValidationError, Message: "type must be expense or sales"})
		return
	}

	inv := &storage.Invoice{
		OwnerID:       owner,
		Type:          req.Type,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   req.InvoiceDate,
		VendorName:    req.VendorName,
		Total:         req.Total,
	}
	if _, err := s.repo.SaveInvoice(inv); err != nil {
		s.internalError(c, "failed to save invoice", err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (s *Server) listInvoices(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	invoices, err := s.repo.ListInvoicesForOwner(owner)
	if err != nil {
		s.internalError(c, "failed to list invoices", err)
		return
	}
	if invoices == nil {
		invoices = []*storage.Invoice{}
	}
	c.JSON(http.StatusOK, invoices)
}

// pushInvoice forwards an invoice to the configured books provider.
func (s *Server) pushInvoice(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if s.pusher == nil {
		c.JSON(http.StatusServiceUnavailable, APIError{
			Code: CodeBadRequest, Message: "no books provider configured"})
		return
	}

	target, err := s.repo.GetInvoice(id)
	if err != nil {
		s.internalError(c, "failed to fetch invoice", err)
		return
	}
	if target == nil || target.OwnerID != owner {
		notFound(c, "invoice not found")
		return
	}

	result, err := s.pusher.PushInvoice(c.Request.Context(), target)
	if err != nil {
		s.internalError(c, "failed to push invoice", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
