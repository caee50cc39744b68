package dynamodb

import "fmt"

// Routing attribute names. These never appear in a decoded record's public
// shape; the codec strips them on the way out.
const (
	AttrPK         = "PK"
	AttrSK         = "SK"
	AttrGSI1PK     = "GSI1PK"
	AttrGSI1SK     = "GSI1SK"
	AttrEntityType = "EntityType"
	AttrUpdatedAt  = "UpdatedAt"
)

// Sort-key prefixes for partition-scoped listing
const (
	ProjectPrefix  = "PROJECT#"
	ScriptPrefix   = "SCRIPT#"
	VideoPrefix    = "VIDEO#"
	AnalysisPrefix = "ANALYSIS#"
)

// GSI1MetadataSK marks the metadata row reachable through GSI1
const GSI1MetadataSK = "METADATA"

// Keys is the full routing-key set derived for one item
type Keys struct {
	PK     string
	SK     string
	GSI1PK string
	GSI1SK string
}

// UserPK groups all records owned by one user
func UserPK(userID string) string {
	return fmt.Sprintf("USER#%s", userID)
}

// ProjectPK groups all records belonging to one project
func ProjectPK(projectID string) string {
	return fmt.Sprintf("%s%s", ProjectPrefix, projectID)
}

// ProjectKeys derives the routing keys for a project record. GSI1 enables
// looking the project up by its own id regardless of owner.
func ProjectKeys(userID, projectID string) Keys {
	return Keys{
		PK:     UserPK(userID),
		SK:     ProjectPK(projectID),
		GSI1PK: ProjectPK(projectID),
		GSI1SK: GSI1MetadataSK,
	}
}

// ScriptKeys derives the routing keys for a script record
func ScriptKeys(projectID, scriptID string) Keys {
	return Keys{
		PK: ProjectPK(projectID),
		SK: fmt.Sprintf("%s%s", ScriptPrefix, scriptID),
	}
}

// VideoKeys derives the routing keys for a video record
func VideoKeys(projectID, videoID string) Keys {
	return Keys{
		PK: ProjectPK(projectID),
		SK: fmt.Sprintf("%s%s", VideoPrefix, videoID),
	}
}

// AnalysisKeys derives the routing keys for a retention analysis record.
// One analysis per script; re-analyzing overwrites.
func AnalysisKeys(projectID, scriptID string) Keys {
	return Keys{
		PK: ProjectPK(projectID),
		SK: fmt.Sprintf("%s%s", AnalysisPrefix, scriptID),
	}
}
