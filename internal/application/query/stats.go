package query

import (
	"github.com/Taqey/Foodo-sub000/internal/cache"
)

// LookupStats tells the transport where a read was served from.
type LookupStats struct {
	Source cache.Source
	Ms     float64
}
