// Package interfaces contains types that are shared between the main SDK package and the
// configuration builders in ampcomponents.
//
// Applications normally do not need to refer to these types directly, except when defining a
// custom component implementation such as a DeviceIDProvider.
package interfaces
