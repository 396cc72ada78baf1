// Package rn487x drives a Microchip RN4870/RN4871 BLE module through its
// ASCII command shell over a serial link.
package rn487x

// The module accepts commands of the form <prefix><args> terminated by a
// carriage return and answers with CR terminated lines. Binary payloads
// travel as fixed-width uppercase hex. Attribute handles of locally defined
// characteristics are learned by streaming the "LS" listing once the
// services are in place.
//
// A Driver owns one line buffer and one handle table. It is not safe for
// concurrent use: every exchange, including consuming the reply, must
// complete before the next one starts.
