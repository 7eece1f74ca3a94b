// Package bluez binds the connection supervisor to BlueZ over the system
// D-Bus. It provides a device registry backed by ObjectManager, a factory
// for per-attempt connection handles, and the handles themselves, which
// connect an audio profile with Device1.ConnectProfile and report when the
// link goes away through PropertiesChanged and InterfacesRemoved signals.
package bluez
