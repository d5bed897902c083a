package domain

import "sort"

// Collection identifies a protected record collection. Protection is an
// explicit allowlist (the rule table below), not a naming convention:
// a Collection value not present in the table is not protected and the
// gateway refuses to scope it.
type Collection string

const (
	CollectionClientWorkouts           Collection = "clientassignedworkouts"
	CollectionProgramAssignments       Collection = "programassignments"
	CollectionClientProfiles           Collection = "clientprofiles"
	CollectionTrainerClientAssignments Collection = "trainerclientassignments"
	CollectionTrainerClientNotes       Collection = "trainerclientnotes"
	CollectionWeeklyCheckins           Collection = "weeklycheckins"
	CollectionWeeklySummaries          Collection = "weeklysummaries"
	CollectionWeeklyCoachesNotes       Collection = "weeklycoachesnotes"
	CollectionTrainerNotifications     Collection = "trainernotifications"
)

func (c Collection) String() string { return string(c) }

// CollectionRule declares what the gateway and the integrity validator
// need to know about one protected collection: which ownership fields
// scope it and which fields every record must carry at write time.
type CollectionRule struct {
	// ClientScoped / TrainerScoped control query pushdown: when true the
	// matching ownership field is filtered store-side for the
	// corresponding role. Read-side visibility always re-checks the
	// record fields in process regardless.
	ClientScoped  bool
	TrainerScoped bool

	// RequiredFields must be present, non-nil, and non-empty-string on
	// every record written to the collection.
	RequiredFields []string
}

// collectionRules is the single source of truth for the protected set.
// Adding a protected collection means adding a row here; the gateway,
// the validator, and the collectionlint tool all read this table.
var collectionRules = map[Collection]CollectionRule{
	CollectionClientWorkouts: {
		ClientScoped: true, TrainerScoped: true,
		RequiredFields: []string{FieldClientID, FieldTrainerID},
	},
	CollectionProgramAssignments: {
		ClientScoped: true, TrainerScoped: true,
		RequiredFields: []string{FieldClientID, FieldTrainerID},
	},
	CollectionClientProfiles: {
		ClientScoped:   true,
		RequiredFields: []string{FieldClientID},
	},
	CollectionTrainerClientAssignments: {
		ClientScoped: true, TrainerScoped: true,
		RequiredFields: []string{FieldClientID, FieldTrainerID, "status"},
	},
	CollectionTrainerClientNotes: {
		ClientScoped: true, TrainerScoped: true,
		RequiredFields: []string{FieldClientID, FieldTrainerID},
	},
	CollectionWeeklyCheckins: {
		ClientScoped: true, TrainerScoped: true,
		RequiredFields: []string{FieldClientID, FieldTrainerID, "weekNumber", "weekStartDate"},
	},
	CollectionWeeklySummaries: {
		ClientScoped: true, TrainerScoped: true,
		RequiredFields: []string{FieldClientID, FieldTrainerID, "weekNumber"},
	},
	CollectionWeeklyCoachesNotes: {
		ClientScoped: true, TrainerScoped: true,
		RequiredFields: []string{FieldClientID, FieldTrainerID, "weekNumber"},
	},
	CollectionTrainerNotifications: {
		TrainerScoped:  true,
		RequiredFields: []string{FieldTrainerID, "type"},
	},
}

// RuleFor returns the rule for a protected collection, or ok=false when
// the collection is not on the allowlist.
func RuleFor(c Collection) (CollectionRule, bool) {
	rule, ok := collectionRules[c]
	return rule, ok
}

// IsProtectedCollection reports whether name is on the allowlist.
func IsProtectedCollection(name string) bool {
	_, ok := collectionRules[Collection(name)]
	return ok
}

// ProtectedCollections returns the allowlist in stable (sorted) order.
func ProtectedCollections() []Collection {
	out := make([]Collection, 0, len(collectionRules))
	for c := range collectionRules {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
