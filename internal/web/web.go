// Package web implements an HTMX-based web application mirroring the TUI functionality.
//
// # HTMX Web Application Implementation Plan
//
// # Architecture
//
// The web app replicates the six-view TUI workflow using server-side rendering
// with HTMX for dynamic updates. Each view corresponds to a template and handler:
//
//  1. Mood Picker: Server-rendered grid with hx-get for intent options
//  2. Intent Picker: HTMX partial swap showing intents + generate button
//  3. Progress Monitor: SSE (Server-Sent Events) streaming generation phases
//  4. Track Preview: Generated track list with create button
//  5. Confirm Modal: hx-post trigger for playlist creation
//  6. Results Display: Created playlist link and track count
//
// Core Components
//
//   - HTTP Server: net/http server with html/template rendering
//   - Service Integration: Uses same services.Service and generator.Engine as TUI
//   - Session Management: Cookie-based sessions for OAuth state and user tracking
//   - SSE Handler: Streams real-time progress during generation
//
// Routes
//
//	GET  /                      → Mood picker (requires auth)
//	GET  /auth/spotify          → OAuth initiation
//	GET  /auth/spotify/callback → OAuth completion
//	GET  /moods/{mood}/intents  → HTMX partial: intent options
//	POST /generate              → Start preview generation, return SSE endpoint
//	GET  /generate/{id}/stream  → SSE progress stream
//	GET  /generate/{id}/preview → Track preview with confirm button
//	POST /generate/{id}/create  → Create the playlist on Spotify
//	GET  /history               → Previously generated playlists
//
// Templates
//
//   - base.html: Layout with navigation, auth status
//   - moods.html: Mood grid with hx-get on cells
//   - tracks.html: Partial template for track preview
//   - progress.html: SSE consumer with phase indicator
//   - results.html: Playlist link and track count
//
// # State Management
//
// Unlike the TUI's in-memory state, the web app persists state in:
//   - Session cookies: Authentication tokens, user ID
//   - GeneratedPlaylist records: Creation history across requests
//   - In-memory channels: SSE connections for active generations
//
// # Progress Streaming
//
// Generation progress uses Server-Sent Events:
//  1. POST /generate stores the mood/intent selection, returns a run ID
//  2. Client opens SSE connection to /generate/{id}/stream
//  3. Handler launches goroutine running generator.Engine.Generate
//  4. Progress channel updates stream as SSE events per phase
//  5. On completion, send "done" event with redirect to the preview
//
// Authentication Flow
//
//  1. User visits /, redirected to /auth/spotify if not authenticated
//  2. PKCE dance stores tokens in the credential store
//  3. Session middleware validates tokens on protected routes
//  4. Expired tokens trigger the refresh path before reauthorization
//
// Dependencies
//
//   - html/template: Server-side rendering
//   - net/http: HTTP server and SSE
//   - gorilla/sessions or similar: Cookie management
//
// Implementation Tasks
//
//  1. HTTP server setup with route registration on server.BasicRouter
//  2. Template structure with HTMX integration
//  3. Session middleware for auth state
//  4. Mood/intent handlers backed by the moods mapping
//  5. Generate endpoint spawning an engine run
//  6. SSE handler streaming ProgressUpdate phases
//  7. Preview and create handlers wrapping the engine's two-pass flow
//  8. History handler backed by repositories.PlaylistRepository
//  9. OAuth handlers wrapping the existing auth.Flow
//  10. Error handling and validation
//
// # Testing Strategy
//
// Use httptest:
//   - Mock services.Service for recommendation data
//   - Stub generator progress channels
//   - Validate HTMX headers and response structure
//   - Test SSE stream formatting
package web
