// Package examples pulls in every example package so their init()
// registrations populate the tour registry. Import it with a blank
// identifier:
//
//	import _ "github.com/leapstack-labs/ormtour/internal/tour/examples"
package examples

import (
	_ "github.com/leapstack-labs/ormtour/internal/tour/examples/composites"
	_ "github.com/leapstack-labs/ormtour/internal/tour/examples/declarative"
	_ "github.com/leapstack-labs/ormtour/internal/tour/examples/engine"
	_ "github.com/leapstack-labs/ormtour/internal/tour/examples/hybrids"
	_ "github.com/leapstack-labs/ormtour/internal/tour/examples/inheritance"
	_ "github.com/leapstack-labs/ormtour/internal/tour/examples/loading"
	_ "github.com/leapstack-labs/ormtour/internal/tour/examples/metadata"
	_ "github.com/leapstack-labs/ormtour/internal/tour/examples/migrations"
	_ "github.com/leapstack-labs/ormtour/internal/tour/examples/mixins"
	_ "github.com/leapstack-labs/ormtour/internal/tour/examples/quickstart"
	_ "github.com/leapstack-labs/ormtour/internal/tour/examples/relationships"
	_ "github.com/leapstack-labs/ormtour/internal/tour/examples/sessions"
	_ "github.com/leapstack-labs/ormtour/internal/tour/examples/validators"
)
