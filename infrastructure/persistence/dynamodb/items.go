package dynamodb

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"contentforge-backend/domain/models"
	apperrors "contentforge-backend/pkg/errors"
	"contentforge-backend/pkg/utils"
)

// Item codecs. Each record type has an explicit item struct (its field
// table) rendered through attributevalue; timestamps are stored as RFC3339
// strings so they sort lexicographically. The routing attributes carried on
// every item are stripped when decoding back to the record's public shape.

// Entity type markers stored alongside every item
const (
	entityProject  = "PROJECT"
	entityScript   = "SCRIPT"
	entityVideo    = "VIDEO"
	entityAnalysis = "ANALYSIS"
)

type topicAttr struct {
	Title       string   `dynamodbav:"Title"`
	Description string   `dynamodbav:"Description"`
	Keywords    []string `dynamodbav:"Keywords,omitempty"`
	SelectedAt  string   `dynamodbav:"SelectedAt"`
}

type projectItem struct {
	PK             string     `dynamodbav:"PK"`
	SK             string     `dynamodbav:"SK"`
	GSI1PK         string     `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK         string     `dynamodbav:"GSI1SK,omitempty"`
	EntityType     string     `dynamodbav:"EntityType"`
	ID             string     `dynamodbav:"ID"`
	UserID         string     `dynamodbav:"UserID"`
	Name           string     `dynamodbav:"Name"`
	Niche          string     `dynamodbav:"Niche"`
	TargetAudience string     `dynamodbav:"TargetAudience"`
	Topic          *topicAttr `dynamodbav:"Topic,omitempty"`
	Status         string     `dynamodbav:"Status"`
	CreatedAt      string     `dynamodbav:"CreatedAt"`
	UpdatedAt      string     `dynamodbav:"UpdatedAt"`
}

// EncodeProject converts a project record into its storage item, deriving
// routing keys from the record's identity
func EncodeProject(p *models.Project) (Item, error) {
	keys := ProjectKeys(p.UserID, p.ID)
	item := projectItem{
		PK:             keys.PK,
		SK:             keys.SK,
		GSI1PK:         keys.GSI1PK,
		GSI1SK:         keys.GSI1SK,
		EntityType:     entityProject,
		ID:             p.ID,
		UserID:         p.UserID,
		Name:           p.Name,
		Niche:          p.Niche,
		TargetAudience: p.TargetAudience,
		Topic:          encodeTopic(p.Topic),
		Status:         string(p.Status),
		CreatedAt:      utils.FormatRFC3339(p.CreatedAt),
		UpdatedAt:      utils.FormatRFC3339(p.UpdatedAt),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, apperrors.NewDecodeError("project", err)
	}
	return av, nil
}

// DecodeProject reconstructs a project record from a storage item. Routing
// fields never reappear in the decoded record.
func DecodeProject(item Item) (*models.Project, error) {
	var pi projectItem
	if err := attributevalue.UnmarshalMap(item, &pi); err != nil {
		return nil, apperrors.NewDecodeError("project", err)
	}
	if pi.ID == "" || pi.UserID == "" || pi.Name == "" {
		return nil, apperrors.NewDecodeError("project", fmt.Errorf("missing required fields"))
	}
	status := models.Status(pi.Status)
	if !status.Valid() {
		return nil, apperrors.NewDecodeError("project", fmt.Errorf("unknown status %q", pi.Status))
	}
	createdAt, err := utils.ParseRFC3339(pi.CreatedAt)
	if err != nil {
		return nil, apperrors.NewDecodeError("project", fmt.Errorf("malformed CreatedAt: %w", err))
	}
	updatedAt, err := utils.ParseRFC3339(pi.UpdatedAt)
	if err != nil {
		return nil, apperrors.NewDecodeError("project", fmt.Errorf("malformed UpdatedAt: %w", err))
	}

	topic, err := decodeTopic(pi.Topic)
	if err != nil {
		return nil, apperrors.NewDecodeError("project", err)
	}

	return &models.Project{
		ID:             pi.ID,
		UserID:         pi.UserID,
		Name:           pi.Name,
		Niche:          pi.Niche,
		TargetAudience: pi.TargetAudience,
		Topic:          topic,
		Status:         status,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}

// EncodeTopicValue renders a topic for use in a partial update
func EncodeTopicValue(t *models.ContentTopic) interface{} {
	return encodeTopic(t)
}

func encodeTopic(t *models.ContentTopic) *topicAttr {
	if t == nil {
		return nil
	}
	return &topicAttr{
		Title:       t.Title,
		Description: t.Description,
		Keywords:    t.Keywords,
		SelectedAt:  utils.FormatRFC3339(t.SelectedAt),
	}
}

func decodeTopic(t *topicAttr) (*models.ContentTopic, error) {
	if t == nil {
		return nil, nil
	}
	selectedAt, err := utils.ParseRFC3339(t.SelectedAt)
	if err != nil {
		return nil, fmt.Errorf("malformed topic SelectedAt: %w", err)
	}
	return &models.ContentTopic{
		Title:       t.Title,
		Description: t.Description,
		Keywords:    t.Keywords,
		SelectedAt:  selectedAt,
	}, nil
}

type sectionAttr struct {
	Section           string `dynamodbav:"Section"`
	Content           string `dynamodbav:"Content"`
	WordCount         int    `dynamodbav:"WordCount"`
	EstimatedDuration int    `dynamodbav:"EstimatedDuration"`
}

type scriptItem struct {
	PK           string        `dynamodbav:"PK"`
	SK           string        `dynamodbav:"SK"`
	EntityType   string        `dynamodbav:"EntityType"`
	ID           string        `dynamodbav:"ID"`
	ProjectID    string        `dynamodbav:"ProjectID"`
	Topic        string        `dynamodbav:"Topic"`
	Tone         string        `dynamodbav:"Tone,omitempty"`
	Platform     string        `dynamodbav:"Platform,omitempty"`
	Hook         sectionAttr   `dynamodbav:"Hook"`
	Introduction sectionAttr   `dynamodbav:"Introduction"`
	MainContent  []sectionAttr `dynamodbav:"MainContent"`
	CallToAction sectionAttr   `dynamodbav:"CallToAction"`
	Version      int           `dynamodbav:"Version"`
	CreatedAt    string        `dynamodbav:"CreatedAt"`
	UpdatedAt    string        `dynamodbav:"UpdatedAt"`
}

// EncodeScript converts a script record into its storage item
func EncodeScript(s *models.Script) (Item, error) {
	keys := ScriptKeys(s.ProjectID, s.ID)
	item := scriptItem{
		PK:           keys.PK,
		SK:           keys.SK,
		EntityType:   entityScript,
		ID:           s.ID,
		ProjectID:    s.ProjectID,
		Topic:        s.Topic,
		Tone:         s.Tone,
		Platform:     s.Platform,
		Hook:         encodeSection(s.Hook),
		Introduction: encodeSection(s.Introduction),
		MainContent:  encodeSections(s.MainContent),
		CallToAction: encodeSection(s.CallToAction),
		Version:      s.Version,
		CreatedAt:    utils.FormatRFC3339(s.CreatedAt),
		UpdatedAt:    utils.FormatRFC3339(s.UpdatedAt),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, apperrors.NewDecodeError("script", err)
	}
	return av, nil
}

// DecodeScript reconstructs a script record from a storage item
func DecodeScript(item Item) (*models.Script, error) {
	var si scriptItem
	if err := attributevalue.UnmarshalMap(item, &si); err != nil {
		return nil, apperrors.NewDecodeError("script", err)
	}
	if si.ID == "" || si.ProjectID == "" {
		return nil, apperrors.NewDecodeError("script", fmt.Errorf("missing required fields"))
	}
	createdAt, err := utils.ParseRFC3339(si.CreatedAt)
	if err != nil {
		return nil, apperrors.NewDecodeError("script", fmt.Errorf("malformed CreatedAt: %w", err))
	}
	updatedAt, err := utils.ParseRFC3339(si.UpdatedAt)
	if err != nil {
		return nil, apperrors.NewDecodeError("script", fmt.Errorf("malformed UpdatedAt: %w", err))
	}

	return &models.Script{
		ID:           si.ID,
		ProjectID:    si.ProjectID,
		Topic:        si.Topic,
		Tone:         si.Tone,
		Platform:     si.Platform,
		Hook:         decodeSection(si.Hook),
		Introduction: decodeSection(si.Introduction),
		MainContent:  decodeSections(si.MainContent),
		CallToAction: decodeSection(si.CallToAction),
		Version:      si.Version,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

// EncodeSectionValue renders a script section for use in a partial update
func EncodeSectionValue(s models.SectionContent) interface{} {
	return encodeSection(s)
}

// EncodeSectionsValue renders a section list for use in a partial update
func EncodeSectionsValue(s []models.SectionContent) interface{} {
	return encodeSections(s)
}

func encodeSection(s models.SectionContent) sectionAttr {
	return sectionAttr{
		Section:           string(s.Section),
		Content:           s.Content,
		WordCount:         s.WordCount,
		EstimatedDuration: s.EstimatedDuration,
	}
}

func encodeSections(ss []models.SectionContent) []sectionAttr {
	out := make([]sectionAttr, 0, len(ss))
	for _, s := range ss {
		out = append(out, encodeSection(s))
	}
	return out
}

func decodeSection(s sectionAttr) models.SectionContent {
	return models.SectionContent{
		Section:           models.ScriptSection(s.Section),
		Content:           s.Content,
		WordCount:         s.WordCount,
		EstimatedDuration: s.EstimatedDuration,
	}
}

func decodeSections(ss []sectionAttr) []models.SectionContent {
	out := make([]models.SectionContent, 0, len(ss))
	for _, s := range ss {
		out = append(out, decodeSection(s))
	}
	return out
}

type clipAttr struct {
	ClipID     string  `dynamodbav:"ClipID"`
	VideoID    string  `dynamodbav:"VideoID"`
	StartTime  float64 `dynamodbav:"StartTime"`
	EndTime    float64 `dynamodbav:"EndTime"`
	Duration   float64 `dynamodbav:"Duration"`
	Confidence int     `dynamodbav:"Confidence"`
	Reason     string  `dynamodbav:"Reason,omitempty"`
	Transcript string  `dynamodbav:"Transcript,omitempty"`
	ImpactType string  `dynamodbav:"ImpactType,omitempty"`
}

type videoItem struct {
	PK              string     `dynamodbav:"PK"`
	SK              string     `dynamodbav:"SK"`
	EntityType      string     `dynamodbav:"EntityType"`
	ID              string     `dynamodbav:"ID"`
	ProjectID       string     `dynamodbav:"ProjectID"`
	Filename        string     `dynamodbav:"Filename"`
	StorageKey      string     `dynamodbav:"StorageKey"`
	Status          string     `dynamodbav:"Status"`
	Size            int64      `dynamodbav:"Size"`
	Duration        float64    `dynamodbav:"Duration,omitempty"`
	Transcript      string     `dynamodbav:"Transcript,omitempty"`
	ClipSuggestions []clipAttr `dynamodbav:"ClipSuggestions,omitempty"`
	ErrorMessage    string     `dynamodbav:"ErrorMessage,omitempty"`
	UploadedAt      string     `dynamodbav:"UploadedAt"`
	ProcessedAt     string     `dynamodbav:"ProcessedAt,omitempty"`
	UpdatedAt       string     `dynamodbav:"UpdatedAt"`
}

// EncodeVideo converts a video record into its storage item
func EncodeVideo(v *models.Video) (Item, error) {
	keys := VideoKeys(v.ProjectID, v.ID)
	item := videoItem{
		PK:              keys.PK,
		SK:              keys.SK,
		EntityType:      entityVideo,
		ID:              v.ID,
		ProjectID:       v.ProjectID,
		Filename:        v.Filename,
		StorageKey:      v.StorageKey,
		Status:          string(v.Status),
		Size:            v.Size,
		Duration:        v.Duration,
		Transcript:      v.Transcript,
		ClipSuggestions: encodeClips(v.ClipSuggestions),
		ErrorMessage:    v.ErrorMessage,
		UploadedAt:      utils.FormatRFC3339(v.UploadedAt),
		UpdatedAt:       utils.FormatRFC3339(v.UpdatedAt),
	}
	if v.ProcessedAt != nil {
		item.ProcessedAt = utils.FormatRFC3339(*v.ProcessedAt)
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, apperrors.NewDecodeError("video", err)
	}
	return av, nil
}

// DecodeVideo reconstructs a video record from a storage item
func DecodeVideo(item Item) (*models.Video, error) {
	var vi videoItem
	if err := attributevalue.UnmarshalMap(item, &vi); err != nil {
		return nil, apperrors.NewDecodeError("video", err)
	}
	if vi.ID == "" || vi.ProjectID == "" {
		return nil, apperrors.NewDecodeError("video", fmt.Errorf("missing required fields"))
	}
	status := models.VideoStatus(vi.Status)
	if !status.Valid() {
		return nil, apperrors.NewDecodeError("video", fmt.Errorf("unknown status %q", vi.Status))
	}
	uploadedAt, err := utils.ParseRFC3339(vi.UploadedAt)
	if err != nil {
		return nil, apperrors.NewDecodeError("video", fmt.Errorf("malformed UploadedAt: %w", err))
	}
	updatedAt, err := utils.ParseRFC3339(vi.UpdatedAt)
	if err != nil {
		return nil, apperrors.NewDecodeError("video", fmt.Errorf("malformed UpdatedAt: %w", err))
	}

	v := &models.Video{
		ID:              vi.ID,
		ProjectID:       vi.ProjectID,
		Filename:        vi.Filename,
		StorageKey:      vi.StorageKey,
		Status:          status,
		Size:            vi.Size,
		Duration:        vi.Duration,
		Transcript:      vi.Transcript,
		ClipSuggestions: decodeClips(vi.ClipSuggestions),
		ErrorMessage:    vi.ErrorMessage,
		UploadedAt:      uploadedAt,
		UpdatedAt:       updatedAt,
	}
	if vi.ProcessedAt != "" {
		processedAt, err := utils.ParseRFC3339(vi.ProcessedAt)
		if err != nil {
			return nil, apperrors.NewDecodeError("video", fmt.Errorf("malformed ProcessedAt: %w", err))
		}
		v.ProcessedAt = &processedAt
	}

	return v, nil
}

// EncodeClipsValue renders clip suggestions for use in a partial update
func EncodeClipsValue(clips []models.ClipSuggestion) interface{} {
	return encodeClips(clips)
}

func encodeClips(clips []models.ClipSuggestion) []clipAttr {
	if len(clips) == 0 {
		return nil
	}
	out := make([]clipAttr, 0, len(clips))
	for _, c := range clips {
		out = append(out, clipAttr{
			ClipID:     c.ClipID,
			VideoID:    c.VideoID,
			StartTime:  c.StartTime,
			EndTime:    c.EndTime,
			Duration:   c.Duration,
			Confidence: c.Confidence,
			Reason:     c.Reason,
			Transcript: c.Transcript,
			ImpactType: string(c.ImpactType),
		})
	}
	return out
}

func decodeClips(clips []clipAttr) []models.ClipSuggestion {
	if len(clips) == 0 {
		return nil
	}
	out := make([]models.ClipSuggestion, 0, len(clips))
	for _, c := range clips {
		out = append(out, models.ClipSuggestion{
			ClipID:     c.ClipID,
			VideoID:    c.VideoID,
			StartTime:  c.StartTime,
			EndTime:    c.EndTime,
			Duration:   c.Duration,
			Confidence: c.Confidence,
			Reason:     c.Reason,
			Transcript: c.Transcript,
			ImpactType: models.ImpactType(c.ImpactType),
		})
	}
	return out
}

type riskSectionAttr struct {
	Section     string   `dynamodbav:"Section"`
	RiskLevel   string   `dynamodbav:"RiskLevel"`
	Issues      []string `dynamodbav:"Issues,omitempty"`
	Suggestions []string `dynamodbav:"Suggestions,omitempty"`
}

type analysisItem struct {
	PK              string            `dynamodbav:"PK"`
	SK              string            `dynamodbav:"SK"`
	EntityType      string            `dynamodbav:"EntityType"`
	ID              string            `dynamodbav:"ID"`
	ScriptID        string            `dynamodbav:"ScriptID"`
	ProjectID       string            `dynamodbav:"ProjectID"`
	OverallScore    int               `dynamodbav:"OverallScore"`
	HookStrength    int               `dynamodbav:"HookStrength"`
	PacingScore     int               `dynamodbav:"PacingScore"`
	ClarityScore    int               `dynamodbav:"ClarityScore"`
	RiskSections    []riskSectionAttr `dynamodbav:"RiskSections,omitempty"`
	Recommendations []string          `dynamodbav:"Recommendations,omitempty"`
	AnalyzedAt      string            `dynamodbav:"AnalyzedAt"`
	UpdatedAt       string            `dynamodbav:"UpdatedAt"`
}

// EncodeAnalysis converts a retention analysis into its storage item
func EncodeAnalysis(a *models.RetentionAnalysis) (Item, error) {
	keys := AnalysisKeys(a.ProjectID, a.ScriptID)
	item := analysisItem{
		PK:              keys.PK,
		SK:              keys.SK,
		EntityType:      entityAnalysis,
		ID:              a.ID,
		ScriptID:        a.ScriptID,
		ProjectID:       a.ProjectID,
		OverallScore:    a.OverallScore,
		HookStrength:    a.HookStrength,
		PacingScore:     a.PacingScore,
		ClarityScore:    a.ClarityScore,
		Recommendations: a.Recommendations,
		AnalyzedAt:      utils.FormatRFC3339(a.AnalyzedAt),
		UpdatedAt:       utils.FormatRFC3339(a.AnalyzedAt),
	}
	for _, rs := range a.RiskSections {
		item.RiskSections = append(item.RiskSections, riskSectionAttr{
			Section:     string(rs.Section),
			RiskLevel:   string(rs.RiskLevel),
			Issues:      rs.Issues,
			Suggestions: rs.Suggestions,
		})
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, apperrors.NewDecodeError("analysis", err)
	}
	return av, nil
}

// DecodeAnalysis reconstructs a retention analysis from a storage item
func DecodeAnalysis(item Item) (*models.RetentionAnalysis, error) {
	var ai analysisItem
	if err := attributevalue.UnmarshalMap(item, &ai); err != nil {
		return nil, apperrors.NewDecodeError("analysis", err)
	}
	if ai.ID == "" || ai.ScriptID == "" {
		return nil, apperrors.NewDecodeError("analysis", fmt.Errorf("missing required fields"))
	}
	analyzedAt, err := utils.ParseRFC3339(ai.AnalyzedAt)
	if err != nil {
		return nil, apperrors.NewDecodeError("analysis", fmt.Errorf("malformed AnalyzedAt: %w", err))
	}

	a := &models.RetentionAnalysis{
		ID:              ai.ID,
		ScriptID:        ai.ScriptID,
		ProjectID:       ai.ProjectID,
		OverallScore:    ai.OverallScore,
		HookStrength:    ai.HookStrength,
		PacingScore:     ai.PacingScore,
		ClarityScore:    ai.ClarityScore,
		Recommendations: ai.Recommendations,
		AnalyzedAt:      analyzedAt,
	}
	for _, rs := range ai.RiskSections {
		a.RiskSections = append(a.RiskSections, models.RiskSection{
			Section:     models.ScriptSection(rs.Section),
			RiskLevel:   models.RiskSeverity(rs.RiskLevel),
			Issues:      rs.Issues,
			Suggestions: rs.Suggestions,
		})
	}

	return a, nil
}
