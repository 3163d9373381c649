package plan

import (
	"math"

	"github.com/agromw/missiond/core/logger"
	"github.com/agromw/missiond/core/model"
)

const maxFloat = math.MaxFloat64

// ScrubNaN replaces NaN values in command parameters and related-task
// numeric fields with MaxFloat64. Upstream planners occasionally emit NaN
// for unset values, which would poison sorting and serialization further
// down the pipeline.
func ScrubNaN(mission *model.Mission, log logger.Logger) {
	for i := range mission.Commands {
		c := &mission.Commands[i]
		scrubField(&c.RelatedTask.Speed, c.ID, "related task speed", log)
		scrubField(&c.RelatedTask.Altitude, c.ID, "related task altitude", log)
		scrubField(&c.RelatedTask.Range, c.ID, "related task range", log)
		scrubField(&c.RelatedTask.MaxSpeed, c.ID, "related task max speed", log)
		for j := range c.Params {
			if math.IsNaN(c.Params[j]) {
				log.Warnf("command %d has param #%d set as NaN, changed to MaxFloat64", c.ID, j)
				c.Params[j] = maxFloat
			}
		}
	}
}

func scrubField(v *float64, commandID int, name string, log logger.Logger) {
	if math.IsNaN(*v) {
		log.Warnf("command %d has %s set as NaN, changed to MaxFloat64", commandID, name)
		*v = maxFloat
	}
}
