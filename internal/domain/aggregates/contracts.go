package aggregates

// WriteTxOwnership says who opens the transaction around an aggregate write.
type WriteTxOwnership string

const (
	// WriteTxOwnedByAggregate means write methods open and commit their own transaction.
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
)

// ReadPolicy limits the reads an aggregate performs itself.
type ReadPolicy string

const (
	// ReadPolicyInvariantScoped allows reads that decide a write and the
	// joined projection returned from it. Listing and search stay on table repos.
	ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"
)

// Contract describes which tables an aggregate owns and how it writes them.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	// OwnedTables are written only through the aggregate.
	OwnedTables      []string
	Notes            string
}

// Owns reports whether table is written through the aggregate.
func (c Contract) Owns(table string) bool {
	for _, t := range c.OwnedTables {
		if t == table {
			return true
		}
	}
	return false
}

// Aggregate is the common marker for all aggregate contracts.
type Aggregate interface {
	Contract() Contract
}
