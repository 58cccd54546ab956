package timesheet

import "sync"

// =============================================================================
// ABSENCE KIND REGISTRY
// =============================================================================

// KindInfo describes one absence kind for validation and display. Labels
// are the French strings the report and UI use.
type KindInfo struct {
	Kind  AbsenceKind
	Label string

	// DefaultJustified is the justified flag a new record starts with when
	// the caller leaves it unset. Planned leave is justified by the act of
	// approving it; sickness stays unjustified until a note arrives.
	DefaultJustified bool
}

var (
	kindRegistry = make(map[AbsenceKind]KindInfo)
	kindOrder    []AbsenceKind
	kindMu       sync.RWMutex
)

// RegisterKind adds an absence kind to the registry. The built-in four are
// registered on package init; call this only to extend the set.
func RegisterKind(info KindInfo) {
	kindMu.Lock()
	defer kindMu.Unlock()
	if _, exists := kindRegistry[info.Kind]; !exists {
		kindOrder = append(kindOrder, info.Kind)
	}
	kindRegistry[info.Kind] = info
}

// LookupKind finds a registered kind by value. Returns nil if not found.
func LookupKind(k AbsenceKind) *KindInfo {
	kindMu.RLock()
	defer kindMu.RUnlock()
	if info, ok := kindRegistry[k]; ok {
		return &info
	}
	return nil
}

// Kinds returns all registered kinds in registration order.
func Kinds() []KindInfo {
	kindMu.RLock()
	defer kindMu.RUnlock()
	result := make([]KindInfo, 0, len(kindOrder))
	for _, k := range kindOrder {
		result = append(result, kindRegistry[k])
	}
	return result
}

func init() {
	RegisterKind(KindInfo{Kind: KindLeave, Label: "Congé", DefaultJustified: true})
	RegisterKind(KindInfo{Kind: KindSickness, Label: "Maladie", DefaultJustified: false})
	RegisterKind(KindInfo{Kind: KindUnpaid, Label: "Sans solde", DefaultJustified: true})
	RegisterKind(KindInfo{Kind: KindOther, Label: "Autre", DefaultJustified: false})
}
