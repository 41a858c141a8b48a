// internal/hooks/search.go
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	commonErrors "rental-wizard/internal/common/errors"
	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/models"
)

// SearchIndexer makes submitted applications findable for the letting team.
// The index document is a projection, not the full snapshot: enough to
// filter by property, status and household shape.
type SearchIndexer struct {
	client *elasticsearch.Client
	index  string
	log    logger.Logger
}

func NewSearchIndexer(client *elasticsearch.Client, index string, log logger.Logger) *SearchIndexer {
	return &SearchIndexer{client: client, index: index, log: log}
}

func (h *SearchIndexer) Name() string { return "search_index" }

func (h *SearchIndexer) AfterSubmit(ctx context.Context, app models.SubmittedApplication) error {
	hasGuarantor := false
	for _, g := range app.Snapshot.Guarantors {
		if !g.IsEmpty() {
			hasGuarantor = true
			break
		}
	}

	doc := map[string]interface{}{
		"draft_id":          app.DraftID,
		"applicant_id":      app.ApplicantID,
		"property_id":       app.PropertyID,
		"applicant_name":    app.ProfileAudit.FirstName + " " + app.ProfileAudit.LastName,
		"email":             app.ProfileAudit.Email,
		"employment_status": app.ProfileAudit.EmploymentStatus,
		"move_in_date":      app.Snapshot.DesiredMoveInDate,
		"lease_months":      app.Snapshot.LeaseDurationMonths,
		"occupant_count":    len(app.Snapshot.Occupants),
		"has_pets":          app.Snapshot.HasPets,
		"has_guarantor":     hasGuarantor,
		"submitted_at":      app.SubmittedAt,
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      h.index,
		DocumentID: app.DraftID,
		Body:       bytes.NewReader(payload),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, h.client)
	if err != nil {
		return commonErrors.NewSearchIndexFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return commonErrors.NewSearchIndexFailedError(fmt.Errorf("index response: %s", res.Status()))
	}

	h.log.Debug("application indexed", map[string]interface{}{
		"draftId": app.DraftID,
		"index":   h.index,
	})
	return nil
}
