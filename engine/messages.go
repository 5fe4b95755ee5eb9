package engine

// Diagnostic message catalogue. Arguments are formatted with fmt.Sprintf.
const (
	// Setup
	msgTabSizeTooSmall = "requested tab size is too small; the minimum value %d will be used"
	msgTabSizeTooLarge = "requested tab size is too large; the maximum value %d will be used"

	// Loading
	msgAttemptToLoadMoreThanOnce    = "attempted to load template file %q more than once; repeat loads are ignored"
	msgUnableToLoadTemplate         = "unable to load the template file because a valid file path has not been set"
	msgNextLoadBeforeFirstIsWritten = "template file %q is being loaded before any output was written for template file %q"
	msgTemplateFileIsEmpty          = "template file is empty"
	msgLoadingTemplateFile          = "loading template file %q"

	// Parsing
	msgMinimumLineLength               = "minimum line length is 3 characters"
	msgFourthCharacterMustBeBlank      = "the fourth character of each line must be blank"
	msgInvalidControlCode              = "%q is not a valid control code"
	msgIndentValueMustBeValidNumber    = "indent value %q is not a valid integer"
	msgIndentValueOutOfRange           = "indent value must be a number between -9 and 9; got %d"
	msgTabSizeValueMustBeValidNumber   = "tab size value %q is not a valid integer"
	msgTabSizeValueOutOfRange          = "TAB option value must be a number between 1 and 9; got %d"
	msgSegmentNameMustStartInColumn5   = "segment name must start in column 5 of the header line; default name %q will be used"
	msgInvalidSegmentName              = "%q is not a valid segment name; default name %q will be used"
	msgInvalidFormOfOption             = "segment options must have the form option=value with no spaces; found %q"
	msgOptionNameMustPrecedeEqualsSign = "an option name must appear immediately before the equals sign in the %q segment header"
	msgOptionValueMustFollowEquals     = "the value for option %q must appear immediately after the equals sign in the %q segment header"
	msgUnknownSegmentOption            = "unknown segment option %q on segment %q is ignored"
	msgDuplicateOption                 = "option %q appears more than once for segment %q; only the first occurrence is used"
	msgFirstTimeIndentSetToZero        = "FTI option value is zero, which disables first time indent processing"
	msgInvalidPadSegmentName           = "%q is not a valid PAD segment name for segment %q; it is ignored"
	msgDuplicateSegmentName            = "segment name %q appears more than once; default name %q will be used for the duplicate"
	msgPadSegmentMustBeDefinedEarlier  = "PAD segment %q referenced by segment %q must be defined earlier in the template file"
	msgSegmentHasBeenAdded             = "segment has been added to the control map"
	msgNoTextLinesAfterHeader          = "header line for segment %q must be followed by at least one text line"
	msgMissingInitialSegmentHeader     = "template file is missing the initial segment header; default segment %q will be used"
	msgMissingTokenName                = "found token delimiters with no token name between them; the token is ignored"
	msgTokenHasInvalidName             = "found a token with an invalid name %q; it is ignored"
	msgTokenMissingEndDelimiter        = "found a token start delimiter with a missing end delimiter; the token is ignored"

	// Generating
	msgGenerateBeforeLoad       = "an attempt was made to generate segment %q before the template was loaded"
	msgUnknownSegmentName       = "segment %q was requested but is not defined in the template file"
	msgSegmentHasNoTextLines    = "segment %q has no text lines and cannot be generated"
	msgProcessingSegment        = "processing segment"
	msgLeftIndentTruncated      = "calculated line indent for segment %q went negative; it is set to zero"
	msgFirstTimeIndentTruncated = "calculated first time indent for segment %q went negative; it is set to zero"
	msgTokenMapIsNull           = "a null token dictionary was supplied for segment %q"
	msgTokenMapIsEmpty          = "an empty token dictionary was supplied for segment %q"
	msgUnknownTokenName         = "unknown token name %q supplied for segment %q is ignored"
	msgInvalidTokenNameSupplied = "token dictionary for segment %q contains invalid token name %q"
	msgTokenWithEmptyValue      = "token %q was passed an empty value for segment %q"
	msgTokenValueIsEmpty        = "token value is empty for token %q while generating segment %q"
	msgUnableToResetSegment     = "unable to reset segment %q because the name is empty or unknown"

	// Reset
	msgTemplateHasBeenReset      = "environment for template file %q has been reset"
	msgGeneratedTextHasBeenReset = "generated text for template file %q has been reset"
)
