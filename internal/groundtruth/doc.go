// Package groundtruth builds, resizes and persists pixel-level ground-truth
// masks.
//
// A mask marks every pixel of a rendered instance-mask image whose color is
// one of the question's target objects. Masks built at render resolution are
// resampled to the heatmap resolution with a bilinear filter and thresholded
// at zero, so boundary pixels are included rather than dropped.
package groundtruth
