// Package portal implements the device's HTTP control surface.
//
// The same server backs both halves of the device's life. While the
// captive portal is active it serves the setup page that lets a phone
// hand over network credentials, and it answers the probe URLs that
// operating systems use to detect captive portals so their sign-in
// sheet opens automatically. Once the device is on a real network the
// same routes become the remote control surface for reading pin state.
//
// # Routes
//
//	GET  /                 setup and status page (HTML)
//	GET  /api/mode         current connectivity mode and address
//	GET  /api/pins         one-shot snapshot of configured pin levels
//	GET  /api/networks     visible networks, strongest first
//	POST /api/wifi         submit a credential; returns a ticket
//	GET  /api/wifi/status  poll a ticket by id
//	POST /api/reset        erase the credential, force portal mode
//	GET  /ws               WebSocket stream of pin snapshots
//
// # Captive portal probes
//
// Android (/generate_204), Apple (/hotspot-detect.html), and Windows
// (/ncsi.txt, /connecttest.txt) each fetch a well-known URL and expect a
// specific body or status. Answering with a redirect to / instead makes
// the client conclude it is behind a portal and surface the setup page.
//
// # Usage Example
//
//	srv := portal.New(portal.Options{
//	    Addr:    ":80",
//	    Control: mgr,
//	    Reader:  reader,
//	    Scanner: scanner,
//	    Pins:    cfg.Pins,
//	})
//	if err := srv.Start(ctx); err != nil {
//	    logging.Fatal("portal server failed", zap.Error(err))
//	}
package portal
