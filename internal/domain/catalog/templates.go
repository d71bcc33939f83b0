package catalog

import (
	"time"

	"github.com/okian/romp/internal/domain/model"
)

// fallback is returned when no sensor family is available at all.
var fallback = model.Template{
	Kind:        model.KindBasic,
	Instruction: "Shake the device!",
	Hint:        "Give it a good firm shake.",
}

// templates is the hand-authored catalog, grouped by kind.
var templates = map[model.Kind][]model.Template{
	model.KindRun: {
		{
			Kind:        model.KindRun,
			Instruction: "Run in place until you hit 10 steps!",
			Hint:        "Keep the phone in your hand while you jog.",
			Count:       10,
		},
		{
			Kind:        model.KindRun,
			Instruction: "Sprint on the spot for 15 steps!",
			Hint:        "Pump your arms, the phone counts each stride.",
			Count:       15,
		},
		{
			Kind:        model.KindRun,
			Instruction: "March for 20 steps without stopping!",
			Hint:        "A steady rhythm counts best.",
			Count:       20,
		},
		{
			Kind:        model.KindRun,
			Instruction: "High knees! 25 steps, go!",
			Hint:        "Bigger movements register more reliably.",
			Count:       25,
		},
	},
	model.KindRotate: {
		{
			Kind:        model.KindRotate,
			Instruction: "Spin clockwise a full turn!",
			Hint:        "Hold the phone flat while you turn.",
			Degrees:     360,
			Direction:   1,
		},
		{
			Kind:        model.KindRotate,
			Instruction: "Spin counter-clockwise a full turn!",
			Hint:        "Other way around this time.",
			Degrees:     360,
			Direction:   -1,
		},
		{
			Kind:        model.KindRotate,
			Instruction: "Do a half turn clockwise!",
			Hint:        "180 degrees is enough.",
			Degrees:     180,
			Direction:   1,
		},
		{
			Kind:        model.KindRotate,
			Instruction: "Spin twice around, any direction!",
			Hint:        "Two full turns, dizzy allowed.",
			Degrees:     720,
			Direction:   0,
		},
		{
			Kind:        model.KindRotate,
			Instruction: "One and a half turns, any way you like!",
			Hint:        "540 degrees total.",
			Degrees:     540,
			Direction:   0,
		},
	},
	model.KindTilt: {
		{
			Kind:        model.KindTilt,
			Instruction: "Tilt forward, then back!",
			Hint:        "Two clean nods of the device.",
			Directions:  []model.TiltDirection{model.TiltForward, model.TiltBackward},
		},
		{
			Kind:        model.KindTilt,
			Instruction: "Tilt left, right, then left again!",
			Hint:        "Rock the device side to side.",
			Directions:  []model.TiltDirection{model.TiltLeft, model.TiltRight, model.TiltLeft},
		},
		{
			Kind:        model.KindTilt,
			Instruction: "All four ways: forward, right, back, left!",
			Hint:        "Roll the device around the compass.",
			Directions: []model.TiltDirection{
				model.TiltForward, model.TiltRight, model.TiltBackward, model.TiltLeft,
			},
		},
		{
			Kind:        model.KindTilt,
			Instruction: "Hold a forward tilt for three seconds!",
			Hint:        "Tip it forward and keep it there.",
			Directions:  []model.TiltDirection{model.TiltForward},
			Hold:        3 * time.Second,
		},
		{
			Kind:        model.KindTilt,
			Instruction: "Hold a left tilt for two seconds!",
			Hint:        "Steady does it.",
			Directions:  []model.TiltDirection{model.TiltLeft},
			Hold:        2 * time.Second,
		},
	},
	model.KindDirection: {
		{
			Kind:        model.KindDirection,
			Instruction: "Face north!",
			Hint:        "Turn until the compass settles on N.",
			Target:      model.North,
		},
		{
			Kind:        model.KindDirection,
			Instruction: "Face east!",
			Hint:        "The sun rises there.",
			Target:      model.East,
		},
		{
			Kind:        model.KindDirection,
			Instruction: "Face south-west!",
			Hint:        "Between S and W on the dial.",
			Target:      model.SouthWest,
			Tolerance:   20,
		},
		{
			Kind:        model.KindDirection,
			Instruction: "Point the device north-east!",
			Hint:        "Halfway between N and E.",
			Target:      model.NorthEast,
			Tolerance:   20,
		},
	},
}
