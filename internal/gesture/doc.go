// Package gesture resolves button press/release pairs into taps, holds,
// and ramps.
//
// A Pico button reports only two physical facts: it went down, and it
// came back up. Everything the bridge does with a button — step once,
// start continuous movement, keep stepping while held — is a timing
// interpretation of those two events. This package owns that
// interpretation for one button at a time.
//
// Two policies cover every Pico behaviour:
//
//   - PolicyImmediateTap: step at press, then repeat steps while held
//     (fan speed, light brightness, media volume).
//   - PolicyDeferredTap: decide at release. Short press steps once; a
//     hold starts continuous motion or a step ramp; release always fires
//     a terminal stop when configured (cover raise/lower, paddle
//     on/off-with-dim).
//
// The cancellation contract is the hard requirement: once Release()
// returns, no command from that press's timer or ramp loop will fire,
// even one that was just about to. See Engine for how the generation
// counter and lock provide that guarantee.
package gesture
