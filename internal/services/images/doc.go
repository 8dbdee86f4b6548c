// Package imagesvc stores product photos. Image bytes live on disk under
// the upload directory, one subdirectory per product; only metadata goes
// through the store. Each product holds a bounded number of images.
package imagesvc
