// Package model groups the data exchanged between a coordinator and its
// workers: the framed message vocabulary (message), task references and
// handler names (task) and the service contract tasks are executed through (types).
package model
