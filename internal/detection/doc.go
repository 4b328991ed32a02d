// Package detection finds and labels snooker and pool balls in a prepared
// frame.
//
// Two strategies propose candidates independently:
//
//   - Geometric: a gradient Hough transform over Canny edges finds circles
//     in the configured radius range (CircleDetector, GeometricStrategy).
//   - Segmented: per-color HSV masks are cleaned with morphology, split into
//     connected blobs and filtered by area and circularity (Segmenter,
//     SegmentationStrategy).
//
// A Classifier labels any candidate from the mean color of a small square
// around its center, and the Reconciler is the single place where the two
// candidate sets meet. It groups candidates closer than the minimum center
// distance, keeps one ball per group and resolves its color.
//
// # Coordinate System
//
// Candidates and detections use frame pixels with the origin at the
// top-left corner, X rightward and Y downward.
//
// # Color Precedence
//
// When strategies disagree, the geometric candidate's classified color wins
// unless it is Unknown; then a segmented candidate's classified color; then
// the segmentation range that produced it; then Unknown.
//
// # Confidence Scores
//
// Confidence is in [0, 1]. For circles it is edge support divided by the
// circumference; for blobs it is circularity. It orders candidates inside a
// group but is not reported on BallDetection.
package detection
