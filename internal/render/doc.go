// Package render turns nail sequences into the artifacts a maker builds from.
//
// Every renderer is a stateless transform. It takes a sequence (or a color
// bundle) together with the nails.Layout the engine used and writes one of:
//
//   - WriteInstructions / WriteColorInstructions: numbered plain-text listing
//   - WriteSVG / WriteColorSVG: vector diagram sized to fit a sheet of paper
//   - Render / RenderPreview: simulated raster of the strung threads
//   - WriteJCode: pen-plotter program tracing the thread path
//
// # Coordinates
//
// Renderers read nail positions from the layout, so they draw exactly the
// nails the engine scored against. The SVG diagram truncates positions to
// whole pixels and shifts them by a 20px margin; the preview keeps sub-pixel
// precision; JCode flips Y so the plot's origin is bottom-left.
//
// Indices outside the layout are skipped rather than reported, so a sequence
// produced for a larger nail count still renders its valid segments.
package render
