/*
Package server implements the node commands shared by application binaries:
init writes the app state into the tendermint genesis file and start serves
the application over the ABCI socket.
*/
package server
