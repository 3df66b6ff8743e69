package normalize

// Registry tracks which entities have already produced rows during the
// current run, keyed by table and natural key. It exists so a batch of
// order documents yields exactly one row per distinct customer, merchant,
// driver and address regardless of how many orders mention them.
//
// A Registry serves exactly one run. NOT safe for concurrent use.
type Registry struct {
	seen map[registryKey]string
}

type registryKey struct {
	table      string
	naturalKey string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		seen: make(map[registryKey]string),
	}
}

// Resolve registers an entity observation. The first observation of a
// natural key wins: its id is recorded and returned with first=true.
// Later observations return the recorded id with first=false, no matter
// what id they carried themselves.
func (r *Registry) Resolve(table, naturalKey, id string) (resolved string, first bool) {
	key := registryKey{table: table, naturalKey: naturalKey}

	if existing, ok := r.seen[key]; ok {
		return existing, false
	}

	r.seen[key] = id
	return id, true
}

// Len returns the number of distinct entities registered.
func (r *Registry) Len() int {
	return len(r.seen)
}
