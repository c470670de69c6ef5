// Package modules defines web module registry helpers.
package modules

import (
	module "github.com/louisbranch/spawnbot/internal/services/web/module"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies aliases the shared services every module is built from. The
// server builds one value and hands it to both registry groups.
type Dependencies = module.Dependencies
