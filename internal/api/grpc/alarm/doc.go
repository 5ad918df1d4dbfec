// Package alarm implements the gRPC transport of the alarm clock.
//
// The AlarmService is declared by hand (ServiceDesc, client stub) and carries
// JSON payloads through a codec registered under the "json" content-subtype,
// so no generated protobuf code is involved. Domain errors are mapped to gRPC
// status codes; rejected alarm times carry an errdetails.BadRequest.
package alarm
