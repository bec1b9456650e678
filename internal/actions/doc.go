// Package actions maps button gestures to device commands, one handler
// per device category.
//
// Every handler implements the same ten-method contract: press and
// release for each of the five logical buttons. The category decides
// what a button means. A cover's Raise opens continuously on hold and
// stops on release; a fan's Raise climbs a discrete speed ladder; a
// light's Raise ramps brightness; a switch ignores it entirely.
//
// Handlers own their gesture engines and the stepping math. They read
// device state through a StateSource snapshot and emit commands through
// an asynchronous Sink, so nothing in this package ever blocks on a
// device or the broker.
package actions
