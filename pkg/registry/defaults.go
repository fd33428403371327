package registry

import (
	"github.com/flowforge/flowforge/pkg/blocks/action"
	"github.com/flowforge/flowforge/pkg/blocks/apicall"
	"github.com/flowforge/flowforge/pkg/blocks/condition"
	"github.com/flowforge/flowforge/pkg/blocks/delay"
	"github.com/flowforge/flowforge/pkg/blocks/end"
	"github.com/flowforge/flowforge/pkg/blocks/loop"
	"github.com/flowforge/flowforge/pkg/blocks/notification"
	"github.com/flowforge/flowforge/pkg/blocks/transform"
	"github.com/flowforge/flowforge/pkg/blocks/trigger"
	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/protocol"
)

// RegisterDefaultBlocks registers the built-in executors. Aliases (api, email)
// resolve through models.BlockType.Canonical.
func RegisterDefaultBlocks(r *Registry, notifier protocol.Notifier, caller protocol.APICaller, delayOpts ...delay.Option) {
	r.Register(trigger.NewExecutor())
	r.Register(apicall.NewExecutor(caller))
	r.Register(notification.NewExecutor(notifier))
	r.Register(condition.NewExecutor())
	r.Register(loop.NewExecutor())
	r.Register(delay.NewExecutor(delayOpts...))
	r.Register(transform.NewExecutor())
	r.Register(action.NewExecutor(models.BlockTypeAction))
	r.Register(action.NewExecutor(models.BlockTypeDatabase))
	r.Register(end.NewExecutor())
}
