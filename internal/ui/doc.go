package ui

// Package ui contains the Fyne-based desktop user interface. It wires user
// interactions to the session, collection and workflow services and renders
// the sign-in form, the product browser and the registration wizard.
